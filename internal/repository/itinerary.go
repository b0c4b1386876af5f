package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/travelog/travelog/internal/model"
)

// ErrItineraryNotFound is returned when no itinerary matches the given ID.
var ErrItineraryNotFound = errors.New("itinerary not found")

const itineraryColumns = `id, title, description, user_id, created_at, updated_at`

// CreateItinerary inserts a new itinerary. Locations are not written.
func (r *Repository) CreateItinerary(ctx context.Context, itinerary *model.Itinerary) error {
	query := `
		INSERT INTO itineraries (` + itineraryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		itinerary.ID,
		itinerary.Title,
		itinerary.Description,
		itinerary.UserID,
		itinerary.CreatedAt,
		itinerary.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create itinerary: %w", err)
	}

	return nil
}

// GetItineraryByID retrieves an itinerary without its locations.
func (r *Repository) GetItineraryByID(ctx context.Context, id string) (*model.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = $1`

	itinerary, err := scanItinerary(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("failed to get itinerary by ID: %w", err)
	}

	return itinerary, nil
}

// ListItinerariesByUser returns the itineraries owned by userID without locations.
func (r *Repository) ListItinerariesByUser(ctx context.Context, userID string) ([]*model.Itinerary, error) {
	query := `
		SELECT ` + itineraryColumns + `
		FROM itineraries
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	itineraries := make([]*model.Itinerary, 0)
	for rows.Next() {
		itinerary, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		itineraries = append(itineraries, itinerary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating itineraries: %w", err)
	}

	return itineraries, nil
}

// UpdateItinerary writes title, description and updated_at.
func (r *Repository) UpdateItinerary(ctx context.Context, itinerary *model.Itinerary) error {
	query := `
		UPDATE itineraries
		SET title = $2, description = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		itinerary.ID,
		itinerary.Title,
		itinerary.Description,
		itinerary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update itinerary: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItineraryNotFound
	}

	return nil
}

// DeleteItinerary removes an itinerary. Its locations go with it via ON DELETE CASCADE.
func (r *Repository) DeleteItinerary(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItineraryNotFound
	}

	return nil
}

func scanItinerary(row pgx.Row) (*model.Itinerary, error) {
	var itinerary model.Itinerary
	err := row.Scan(
		&itinerary.ID,
		&itinerary.Title,
		&itinerary.Description,
		&itinerary.UserID,
		&itinerary.CreatedAt,
		&itinerary.UpdatedAt,
	)
	return &itinerary, err
}
