package service

import (
	"context"
	"testing"
	"time"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/testutil/memstore"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store       *memstore.Store
	denylist    *memstore.Denylist
	tokens      *auth.TokenManager
	recorder    *metrics.InMemoryRecorder
	auth        *AuthService
	diary       *DiaryService
	itineraries *ItineraryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := auth.NewTokenManager(testSecret, "travelog", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	store := memstore.New()
	denylist := memstore.NewDenylist()
	recorder := metrics.NewInMemory()
	hasher := auth.NewPasswordHasher(auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})

	return &fixture{
		store:       store,
		denylist:    denylist,
		tokens:      tokens,
		recorder:    recorder,
		auth:        NewAuthService(store, hasher, tokens, denylist, recorder),
		diary:       NewDiaryService(store, store, recorder),
		itineraries: NewItineraryService(store, store, recorder),
	}
}

// signup creates a user through the service and returns its ID.
func (f *fixture) signup(t *testing.T, email string) string {
	t.Helper()
	res, err := f.auth.Signup(context.Background(), SignupInput{Email: email, Password: "password123"})
	if err != nil {
		t.Fatalf("Signup(%s): %v", email, err)
	}
	return res.User.ID
}

func (f *fixture) createEntry(t *testing.T, ownerID, title string) *model.DiaryEntry {
	t.Helper()
	entry, err := f.diary.Create(context.Background(), DiaryEntryInput{Title: ptr(title)}, ownerID)
	if err != nil {
		t.Fatalf("Create diary entry: %v", err)
	}
	return entry
}

func (f *fixture) createItinerary(t *testing.T, ownerID, title string) *model.Itinerary {
	t.Helper()
	it, err := f.itineraries.Create(context.Background(), ItineraryInput{Title: ptr(title), Description: ptr("")}, ownerID)
	if err != nil {
		t.Fatalf("Create itinerary: %v", err)
	}
	return it
}

func ptr[T any](v T) *T {
	return &v
}
