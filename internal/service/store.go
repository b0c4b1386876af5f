package service

import (
	"context"
	"time"

	"github.com/travelog/travelog/internal/model"
)

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// DiaryStore persists diary entries.
type DiaryStore interface {
	CreateDiaryEntry(ctx context.Context, entry *model.DiaryEntry) error
	GetDiaryEntryByID(ctx context.Context, id string) (*model.DiaryEntry, error)
	ListDiaryEntriesByUser(ctx context.Context, userID string) ([]*model.DiaryEntry, error)
	ListDiaryEntries(ctx context.Context, offset, limit int) ([]*model.DiaryEntry, error)
	UpdateDiaryEntry(ctx context.Context, entry *model.DiaryEntry) error
	DeleteDiaryEntry(ctx context.Context, id string) error
}

// ItineraryStore persists itineraries and their locations.
type ItineraryStore interface {
	CreateItinerary(ctx context.Context, itinerary *model.Itinerary) error
	GetItineraryByID(ctx context.Context, id string) (*model.Itinerary, error)
	ListItinerariesByUser(ctx context.Context, userID string) ([]*model.Itinerary, error)
	UpdateItinerary(ctx context.Context, itinerary *model.Itinerary) error
	DeleteItinerary(ctx context.Context, id string) error

	// Location writes bump the parent itinerary's updated_at to touchedAt
	// atomically with the change itself.
	CreateLocation(ctx context.Context, location *model.Location, touchedAt time.Time) error
	GetLocation(ctx context.Context, itineraryID, locationID string) (*model.Location, error)
	ListLocationsByItinerary(ctx context.Context, itineraryID string) ([]*model.Location, error)
	ListLocationsByItineraries(ctx context.Context, itineraryIDs []string) ([]*model.Location, error)
	UpdateLocation(ctx context.Context, location *model.Location, touchedAt time.Time) error
	DeleteLocation(ctx context.Context, itineraryID, locationID string, touchedAt time.Time) error
}

// TokenRevoker denylists bearer tokens.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, token string, expiresAt time.Time) error
}

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}
