// Package memstore provides in-memory implementations of the repository
// method sets for unit tests. Values are copied on the way in and out so
// callers cannot mutate stored state without an explicit update.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/repository"
)

// Store is an in-memory stand-in for *repository.Repository.
type Store struct {
	mu          sync.Mutex
	users       map[string]*model.User
	entries     map[string]*model.DiaryEntry
	itineraries map[string]*model.Itinerary
	locations   map[string]*model.Location

	// Err, when set, is returned by every method.
	Err error
	// TouchErr, when set, fails location writes at the step that bumps the
	// parent itinerary, after which nothing is kept, as with a rolled-back
	// transaction.
	TouchErr error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:       make(map[string]*model.User),
		entries:     make(map[string]*model.DiaryEntry),
		itineraries: make(map[string]*model.Itinerary),
		locations:   make(map[string]*model.Location),
	}
}

// Ping reports the injected error, if any.
func (s *Store) Ping(ctx context.Context) error {
	return s.Err
}

// ============================================================================
// Users
// ============================================================================

// CreateUser stores a user, enforcing unique emails.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByID returns a copy of the user.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail returns a copy of the user with email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// ============================================================================
// Diary entries
// ============================================================================

// CreateDiaryEntry stores an entry; the owner must exist.
func (s *Store) CreateDiaryEntry(ctx context.Context, entry *model.DiaryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[entry.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	s.entries[entry.ID] = copyEntry(entry)
	return nil
}

// GetDiaryEntryByID returns a copy of the entry.
func (s *Store) GetDiaryEntryByID(ctx context.Context, id string) (*model.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.entries[id]
	if !ok {
		return nil, repository.ErrDiaryEntryNotFound
	}
	return copyEntry(e), nil
}

// ListDiaryEntriesByUser returns entries owned by userID in storage order.
func (s *Store) ListDiaryEntriesByUser(ctx context.Context, userID string) ([]*model.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []*model.DiaryEntry{}
	for _, e := range s.sortedEntries() {
		if e.UserID == userID {
			out = append(out, copyEntry(e))
		}
	}
	return out, nil
}

// ListDiaryEntries returns one page of entries across all owners.
func (s *Store) ListDiaryEntries(ctx context.Context, offset, limit int) ([]*model.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	all := s.sortedEntries()
	out := []*model.DiaryEntry{}
	for i := offset; i < len(all) && len(out) < limit; i++ {
		out = append(out, copyEntry(all[i]))
	}
	return out, nil
}

// UpdateDiaryEntry replaces a stored entry.
func (s *Store) UpdateDiaryEntry(ctx context.Context, entry *model.DiaryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.entries[entry.ID]
	if !ok {
		return repository.ErrDiaryEntryNotFound
	}
	cp := copyEntry(entry)
	cp.UserID = existing.UserID
	cp.CreatedAt = existing.CreatedAt
	s.entries[entry.ID] = cp
	return nil
}

// DeleteDiaryEntry removes an entry.
func (s *Store) DeleteDiaryEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.entries[id]; !ok {
		return repository.ErrDiaryEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) sortedEntries() []*model.DiaryEntry {
	out := make([]*model.DiaryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return storageLess(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out
}

// ============================================================================
// Itineraries
// ============================================================================

// CreateItinerary stores an itinerary; the owner must exist.
func (s *Store) CreateItinerary(ctx context.Context, itinerary *model.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[itinerary.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	s.itineraries[itinerary.ID] = copyItinerary(itinerary)
	return nil
}

// GetItineraryByID returns a copy of the itinerary without locations.
func (s *Store) GetItineraryByID(ctx context.Context, id string) (*model.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	it, ok := s.itineraries[id]
	if !ok {
		return nil, repository.ErrItineraryNotFound
	}
	return copyItinerary(it), nil
}

// ListItinerariesByUser returns itineraries owned by userID in storage order.
func (s *Store) ListItinerariesByUser(ctx context.Context, userID string) ([]*model.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []*model.Itinerary{}
	for _, it := range s.itineraries {
		if it.UserID == userID {
			out = append(out, copyItinerary(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return storageLess(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

// UpdateItinerary writes title, description and updated_at.
func (s *Store) UpdateItinerary(ctx context.Context, itinerary *model.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	it, ok := s.itineraries[itinerary.ID]
	if !ok {
		return repository.ErrItineraryNotFound
	}
	it.Title = itinerary.Title
	it.Description = itinerary.Description
	it.UpdatedAt = itinerary.UpdatedAt
	return nil
}

// DeleteItinerary removes an itinerary and its locations.
func (s *Store) DeleteItinerary(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.itineraries[id]; !ok {
		return repository.ErrItineraryNotFound
	}
	delete(s.itineraries, id)
	for locID, loc := range s.locations {
		if loc.ItineraryID == id {
			delete(s.locations, locID)
		}
	}
	return nil
}

// ============================================================================
// Locations
// ============================================================================

// CreateLocation stores a location and touches its itinerary.
func (s *Store) CreateLocation(ctx context.Context, location *model.Location, touchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	it, ok := s.itineraries[location.ItineraryID]
	if !ok {
		return repository.ErrItineraryNotFound
	}
	if s.TouchErr != nil {
		return s.TouchErr
	}
	cp := *location
	s.locations[location.ID] = &cp
	it.UpdatedAt = touchedAt
	return nil
}

// GetLocation returns a location scoped to itineraryID.
func (s *Store) GetLocation(ctx context.Context, itineraryID, locationID string) (*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	loc, ok := s.locations[locationID]
	if !ok || loc.ItineraryID != itineraryID {
		return nil, repository.ErrLocationNotFound
	}
	cp := *loc
	return &cp, nil
}

// ListLocationsByItinerary returns the locations of one itinerary.
func (s *Store) ListLocationsByItinerary(ctx context.Context, itineraryID string) ([]*model.Location, error) {
	return s.ListLocationsByItineraries(ctx, []string{itineraryID})
}

// ListLocationsByItineraries returns the locations of several itineraries
// ordered by itinerary, then storage order.
func (s *Store) ListLocationsByItineraries(ctx context.Context, itineraryIDs []string) ([]*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	wanted := make(map[string]bool, len(itineraryIDs))
	for _, id := range itineraryIDs {
		wanted[id] = true
	}
	out := []*model.Location{}
	for _, loc := range s.locations {
		if wanted[loc.ItineraryID] {
			cp := *loc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItineraryID != out[j].ItineraryID {
			return out[i].ItineraryID < out[j].ItineraryID
		}
		return storageLess(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

// UpdateLocation writes the mutable fields of a location and touches its itinerary.
func (s *Store) UpdateLocation(ctx context.Context, location *model.Location, touchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	loc, ok := s.locations[location.ID]
	if !ok || loc.ItineraryID != location.ItineraryID {
		return repository.ErrLocationNotFound
	}
	it, ok := s.itineraries[location.ItineraryID]
	if !ok {
		return repository.ErrItineraryNotFound
	}
	if s.TouchErr != nil {
		return s.TouchErr
	}
	it.UpdatedAt = touchedAt
	loc.PhotoURI = location.PhotoURI
	loc.Title = location.Title
	loc.Description = location.Description
	loc.FormattedAddress = location.FormattedAddress
	return nil
}

// DeleteLocation removes a location scoped to itineraryID and touches the itinerary.
func (s *Store) DeleteLocation(ctx context.Context, itineraryID, locationID string, touchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	loc, ok := s.locations[locationID]
	if !ok || loc.ItineraryID != itineraryID {
		return repository.ErrLocationNotFound
	}
	it, ok := s.itineraries[itineraryID]
	if !ok {
		return repository.ErrItineraryNotFound
	}
	if s.TouchErr != nil {
		return s.TouchErr
	}
	it.UpdatedAt = touchedAt
	delete(s.locations, locationID)
	return nil
}

// LocationCount returns the number of stored locations.
func (s *Store) LocationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locations)
}

func storageLess(ta time.Time, ida string, tb time.Time, idb string) bool {
	if !ta.Equal(tb) {
		return ta.Before(tb)
	}
	return ida < idb
}

func copyEntry(e *model.DiaryEntry) *model.DiaryEntry {
	cp := *e
	cp.Description = copyStr(e.Description)
	cp.PhotoURI = copyStr(e.PhotoURI)
	cp.FormattedAddress = copyStr(e.FormattedAddress)
	cp.Journal = copyStr(e.Journal)
	return &cp
}

func copyItinerary(it *model.Itinerary) *model.Itinerary {
	cp := *it
	cp.Locations = nil
	return &cp
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
