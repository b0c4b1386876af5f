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

// ItineraryService handles itineraries and their nested locations.
type ItineraryService struct {
	store   ItineraryStore
	users   UserStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewItineraryService creates a new ItineraryService.
func NewItineraryService(store ItineraryStore, users UserStore, recorder metrics.Recorder) *ItineraryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ItineraryService{
		store:   store,
		users:   users,
		metrics: recorder,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ItineraryInput holds itinerary fields; nil pointers are left unchanged on update.
type ItineraryInput struct {
	Title       *string
	Description *string
}

// LocationInput holds location fields; nil pointers are left unchanged on update.
type LocationInput struct {
	PhotoURI         *string
	Title            *string
	Description      *string
	FormattedAddress *string
}

// List returns the itineraries owned by ownerID with their locations.
func (s *ItineraryService) List(ctx context.Context, ownerID string) ([]*model.Itinerary, error) {
	itineraries, err := s.store.ListItinerariesByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	if len(itineraries) == 0 {
		return itineraries, nil
	}

	ids := make([]string, len(itineraries))
	byID := make(map[string]*model.Itinerary, len(itineraries))
	for i, it := range itineraries {
		ids[i] = it.ID
		it.Locations = []*model.Location{}
		byID[it.ID] = it
	}

	locations, err := s.store.ListLocationsByItineraries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	for _, loc := range locations {
		if it, ok := byID[loc.ItineraryID]; ok {
			it.Locations = append(it.Locations, loc)
		}
	}

	return itineraries, nil
}

// Get returns an itinerary owned by requesterID with its locations.
func (s *ItineraryService) Get(ctx context.Context, id, requesterID string) (*model.Itinerary, error) {
	itinerary, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, itinerary); err != nil {
		return nil, err
	}
	return itinerary, nil
}

// Create stores a new itinerary owned by ownerID.
func (s *ItineraryService) Create(ctx context.Context, input ItineraryInput, ownerID string) (*model.Itinerary, error) {
	if input.Title == nil {
		return nil, NewValidationError("title", "required")
	}

	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	now := s.now()
	itinerary := &model.Itinerary{
		ID:        ulid.Make().String(),
		UserID:    ownerID,
		Locations: []*model.Location{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.applyTo(itinerary)

	if err := s.store.CreateItinerary(ctx, itinerary); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityItinerary, metrics.ActionCreated)

	return itinerary, nil
}

// Update applies the supplied fields and bumps updated_at.
func (s *ItineraryService) Update(ctx context.Context, id string, input ItineraryInput, requesterID string) (*model.Itinerary, error) {
	itinerary, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	input.applyTo(itinerary)
	itinerary.UpdatedAt = s.now()

	if err := s.store.UpdateItinerary(ctx, itinerary); err != nil {
		if errors.Is(err, repository.ErrItineraryNotFound) {
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}

	if err := s.populate(ctx, itinerary); err != nil {
		return nil, err
	}

	s.metrics.IncMutation(metrics.EntityItinerary, metrics.ActionUpdated)

	return itinerary, nil
}

// Delete removes an itinerary and, by cascade, its locations.
func (s *ItineraryService) Delete(ctx context.Context, id, requesterID string) error {
	if _, err := s.getOwned(ctx, id, requesterID); err != nil {
		return err
	}

	if err := s.store.DeleteItinerary(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItineraryNotFound) {
			return ErrItineraryNotFound
		}
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityItinerary, metrics.ActionDeleted)

	return nil
}

// CreateLocation appends a location to an itinerary owned by requesterID.
func (s *ItineraryService) CreateLocation(ctx context.Context, itineraryID string, input LocationInput, requesterID string) (*model.Location, error) {
	if input.Title == nil {
		return nil, NewValidationError("title", "required")
	}

	if _, err := s.getOwned(ctx, itineraryID, requesterID); err != nil {
		return nil, err
	}

	location := &model.Location{
		ID:          ulid.Make().String(),
		ItineraryID: itineraryID,
		CreatedAt:   s.now(),
	}
	input.applyTo(location)

	if err := s.store.CreateLocation(ctx, location, s.now()); err != nil {
		if errors.Is(err, repository.ErrItineraryNotFound) {
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityLocation, metrics.ActionCreated)

	return location, nil
}

// GetLocation returns one location of an itinerary owned by requesterID.
func (s *ItineraryService) GetLocation(ctx context.Context, itineraryID, locationID, requesterID string) (*model.Location, error) {
	if _, err := s.getOwned(ctx, itineraryID, requesterID); err != nil {
		return nil, err
	}
	return s.getLocation(ctx, itineraryID, locationID)
}

// UpdateLocation applies the supplied fields to a location.
func (s *ItineraryService) UpdateLocation(ctx context.Context, itineraryID, locationID string, input LocationInput, requesterID string) (*model.Location, error) {
	if _, err := s.getOwned(ctx, itineraryID, requesterID); err != nil {
		return nil, err
	}

	location, err := s.getLocation(ctx, itineraryID, locationID)
	if err != nil {
		return nil, err
	}

	input.applyTo(location)

	if err := s.store.UpdateLocation(ctx, location, s.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrLocationNotFound):
			return nil, ErrLocationNotFound
		case errors.Is(err, repository.ErrItineraryNotFound):
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityLocation, metrics.ActionUpdated)

	return location, nil
}

// DeleteLocation removes a location from an itinerary owned by requesterID.
func (s *ItineraryService) DeleteLocation(ctx context.Context, itineraryID, locationID, requesterID string) error {
	if _, err := s.getOwned(ctx, itineraryID, requesterID); err != nil {
		return err
	}

	if err := s.store.DeleteLocation(ctx, itineraryID, locationID, s.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrLocationNotFound):
			return ErrLocationNotFound
		case errors.Is(err, repository.ErrItineraryNotFound):
			return ErrItineraryNotFound
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}

	s.metrics.IncMutation(metrics.EntityLocation, metrics.ActionDeleted)

	return nil
}

// getOwned checks existence before ownership so a missing itinerary is NotFound.
func (s *ItineraryService) getOwned(ctx context.Context, id, requesterID string) (*model.Itinerary, error) {
	itinerary, err := s.store.GetItineraryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItineraryNotFound) {
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	if !itinerary.IsOwnedBy(requesterID) {
		return nil, ErrNotOwner
	}
	return itinerary, nil
}

func (s *ItineraryService) getLocation(ctx context.Context, itineraryID, locationID string) (*model.Location, error) {
	location, err := s.store.GetLocation(ctx, itineraryID, locationID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return location, nil
}

func (s *ItineraryService) populate(ctx context.Context, itinerary *model.Itinerary) error {
	locations, err := s.store.ListLocationsByItinerary(ctx, itinerary.ID)
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}
	if locations == nil {
		locations = []*model.Location{}
	}
	itinerary.Locations = locations
	return nil
}

func (in ItineraryInput) applyTo(itinerary *model.Itinerary) {
	if in.Title != nil {
		itinerary.Title = *in.Title
	}
	if in.Description != nil {
		itinerary.Description = *in.Description
	}
}

func (in LocationInput) applyTo(location *model.Location) {
	if in.PhotoURI != nil {
		location.PhotoURI = *in.PhotoURI
	}
	if in.Title != nil {
		location.Title = *in.Title
	}
	if in.Description != nil {
		location.Description = *in.Description
	}
	if in.FormattedAddress != nil {
		location.FormattedAddress = *in.FormattedAddress
	}
}
