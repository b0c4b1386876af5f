package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/repository"
)

const (
	// DefaultPageSize is used when the requested limit is below 1.
	DefaultPageSize = 10
	// MaxPageSize caps the limit of ListAllPaginated.
	MaxPageSize = 10
)

// DiaryService handles diary entry business logic.
type DiaryService struct {
	entries DiaryStore
	users   UserStore
	metrics metrics.Recorder
}

// NewDiaryService creates a new DiaryService.
func NewDiaryService(entries DiaryStore, users UserStore, recorder metrics.Recorder) *DiaryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DiaryService{
		entries: entries,
		users:   users,
		metrics: recorder,
	}
}

// DiaryEntryInput holds the fields of a diary entry. Nil pointers are
// left unchanged on update and take their defaults on create.
type DiaryEntryInput struct {
	Title            *string
	Description      *string
	PhotoURI         *string
	Price            *float64
	Rating           *float64
	FormattedAddress *string
	Journal          *string
}

// Page is one page of a cross-owner listing.
type Page struct {
	Entries []*model.DiaryEntry
	Page    int
	Limit   int
}

// List returns every entry owned by ownerID.
func (s *DiaryService) List(ctx context.Context, ownerID string) ([]*model.DiaryEntry, error) {
	entries, err := s.entries.ListDiaryEntriesByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}
	return entries, nil
}

// NormalizePage clamps page and limit to their accepted ranges.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// ListAllPaginated returns one page of entries across all owners.
func (s *DiaryService) ListAllPaginated(ctx context.Context, page, limit int) (*Page, error) {
	page, limit = NormalizePage(page, limit)

	entries, err := s.entries.ListDiaryEntries(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}

	return &Page{Entries: entries, Page: page, Limit: limit}, nil
}

// Get returns an entry by ID. Any authenticated caller may read any entry.
func (s *DiaryService) Get(ctx context.Context, id string) (*model.DiaryEntry, error) {
	entry, err := s.entries.GetDiaryEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDiaryEntryNotFound) {
			return nil, ErrDiaryEntryNotFound
		}
		return nil, fmt.Errorf("failed to get diary entry: %w", err)
	}
	return entry, nil
}

// Create stores a new entry owned by ownerID.
func (s *DiaryService) Create(ctx context.Context, input DiaryEntryInput, ownerID string) (*model.DiaryEntry, error) {
	if input.Title == nil {
		return nil, NewValidationError("title", "required")
	}

	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	entry := &model.DiaryEntry{
		ID:        ulid.Make().String(),
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
	}
	input.applyTo(entry)

	if err := s.entries.CreateDiaryEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create diary entry: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityDiaryEntry, metrics.ActionCreated)

	return entry, nil
}

// Update applies the supplied fields to an entry owned by requesterID.
func (s *DiaryService) Update(ctx context.Context, id string, input DiaryEntryInput, requesterID string) (*model.DiaryEntry, error) {
	entry, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	input.applyTo(entry)

	if err := s.entries.UpdateDiaryEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDiaryEntryNotFound) {
			return nil, ErrDiaryEntryNotFound
		}
		return nil, fmt.Errorf("failed to update diary entry: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityDiaryEntry, metrics.ActionUpdated)

	return entry, nil
}

// Delete removes an entry owned by requesterID.
func (s *DiaryService) Delete(ctx context.Context, id, requesterID string) error {
	if _, err := s.getOwned(ctx, id, requesterID); err != nil {
		return err
	}

	if err := s.entries.DeleteDiaryEntry(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDiaryEntryNotFound) {
			return ErrDiaryEntryNotFound
		}
		return fmt.Errorf("failed to delete diary entry: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityDiaryEntry, metrics.ActionDeleted)

	return nil
}

// getOwned checks existence before ownership so a missing entry is NotFound.
func (s *DiaryService) getOwned(ctx context.Context, id, requesterID string) (*model.DiaryEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.IsOwnedBy(requesterID) {
		return nil, ErrNotOwner
	}
	return entry, nil
}

func (in DiaryEntryInput) applyTo(entry *model.DiaryEntry) {
	if in.Title != nil {
		entry.Title = *in.Title
	}
	if in.Description != nil {
		entry.Description = in.Description
	}
	if in.PhotoURI != nil {
		entry.PhotoURI = in.PhotoURI
	}
	if in.Price != nil {
		entry.Price = *in.Price
	}
	if in.Rating != nil {
		entry.Rating = *in.Rating
	}
	if in.FormattedAddress != nil {
		entry.FormattedAddress = in.FormattedAddress
	}
	if in.Journal != nil {
		entry.Journal = in.Journal
	}
}
