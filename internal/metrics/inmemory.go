package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups       uint64
	Logins        map[string]uint64 // by outcome
	Logouts       uint64
	Mutations     map[string]uint64 // by "entity:action"
	HTTPRequests  map[int]uint64    // by status code
	RateLimited   map[string]uint64 // by scope
	MapsRequests  map[string]uint64 // by "endpoint:outcome"
	MapsLatencyNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		snap: Snapshot{
			Logins:       make(map[string]uint64),
			Mutations:    make(map[string]uint64),
			HTTPRequests: make(map[int]uint64),
			RateLimited:  make(map[string]uint64),
			MapsRequests: make(map[string]uint64),
		},
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.snap
	out.Logins = copyMap(m.snap.Logins)
	out.Mutations = copyMap(m.snap.Mutations)
	out.HTTPRequests = copyMap(m.snap.HTTPRequests)
	out.RateLimited = copyMap(m.snap.RateLimited)
	out.MapsRequests = copyMap(m.snap.MapsRequests)
	return out
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	m.mu.Lock()
	m.snap.Signups++
	m.mu.Unlock()
}

// IncLogin increments the login counter for outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	m.snap.Logins[outcome]++
	m.mu.Unlock()
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	m.mu.Lock()
	m.snap.Logouts++
	m.mu.Unlock()
}

// IncMutation increments the mutation counter for entity and action.
func (m *InMemoryRecorder) IncMutation(entity, action string) {
	m.mu.Lock()
	m.snap.Mutations[entity+":"+action]++
	m.mu.Unlock()
}

// ObserveHTTPRequest counts a request by status.
func (m *InMemoryRecorder) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	m.mu.Lock()
	m.snap.HTTPRequests[status]++
	m.mu.Unlock()
}

// IncRateLimited increments the rejected-request counter for scope.
func (m *InMemoryRecorder) IncRateLimited(scope string) {
	m.mu.Lock()
	m.snap.RateLimited[scope]++
	m.mu.Unlock()
}

// ObserveMapsRequest counts an upstream maps call.
func (m *InMemoryRecorder) ObserveMapsRequest(endpoint, outcome string, duration time.Duration) {
	m.mu.Lock()
	m.snap.MapsRequests[endpoint+":"+outcome]++
	m.snap.MapsLatencyNs += duration.Nanoseconds()
	m.mu.Unlock()
}

func copyMap[K comparable](in map[K]uint64) map[K]uint64 {
	out := make(map[K]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
