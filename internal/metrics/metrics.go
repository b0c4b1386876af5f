// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Entity names used as metric labels.
const (
	EntityDiaryEntry = "diary_entry"
	EntityItinerary  = "itinerary"
	EntityLocation   = "location"
)

// Actions used as metric labels.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Auth metrics
	IncSignup()
	IncLogin(outcome string) // outcome: "success", "not_found", "unauthorized"
	IncLogout()

	// Resource metrics
	IncMutation(entity, action string)

	// HTTP metrics
	ObserveHTTPRequest(route, method string, status int, duration time.Duration)
	IncRateLimited(scope string) // scope: "user" or "ip"

	// Maps upstream metrics
	ObserveMapsRequest(endpoint, outcome string, duration time.Duration) // outcome: "success" or "error"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
