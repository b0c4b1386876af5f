package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/travelog/travelog/internal/model"
)

// ErrLocationNotFound is returned when no location matches within the itinerary.
var ErrLocationNotFound = errors.New("location not found")

const locationColumns = `id, photo_uri, title, description, formatted_address, itinerary_id, created_at`

// CreateLocation inserts a location and bumps its itinerary's updated_at to
// touchedAt in one transaction.
func (r *Repository) CreateLocation(ctx context.Context, location *model.Location, touchedAt time.Time) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			location.ID,
			location.PhotoURI,
			location.Title,
			location.Description,
			location.FormattedAddress,
			location.ItineraryID,
			location.CreatedAt,
		); err != nil {
			if isForeignKeyViolation(err) {
				return ErrItineraryNotFound
			}
			return fmt.Errorf("failed to create location: %w", err)
		}
		return touchItinerary(ctx, tx, location.ItineraryID, touchedAt)
	})
}

// GetLocation retrieves a location scoped to its itinerary.
func (r *Repository) GetLocation(ctx context.Context, itineraryID, locationID string) (*model.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1 AND itinerary_id = $2`

	location, err := scanLocation(r.pool.QueryRow(ctx, query, locationID, itineraryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return location, nil
}

// ListLocationsByItinerary returns the locations of one itinerary in storage order.
func (r *Repository) ListLocationsByItinerary(ctx context.Context, itineraryID string) ([]*model.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE itinerary_id = $1
		ORDER BY created_at, id
	`

	return r.queryLocations(ctx, query, itineraryID)
}

// ListLocationsByItineraries returns the locations of several itineraries in one query,
// ordered by itinerary then storage order.
func (r *Repository) ListLocationsByItineraries(ctx context.Context, itineraryIDs []string) ([]*model.Location, error) {
	if len(itineraryIDs) == 0 {
		return []*model.Location{}, nil
	}

	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE itinerary_id = ANY($1)
		ORDER BY itinerary_id, created_at, id
	`

	return r.queryLocations(ctx, query, itineraryIDs)
}

// UpdateLocation writes every mutable field of a location and bumps its
// itinerary's updated_at to touchedAt in one transaction.
func (r *Repository) UpdateLocation(ctx context.Context, location *model.Location, touchedAt time.Time) error {
	query := `
		UPDATE locations
		SET photo_uri = $3, title = $4, description = $5, formatted_address = $6
		WHERE id = $1 AND itinerary_id = $2
	`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query,
			location.ID,
			location.ItineraryID,
			location.PhotoURI,
			location.Title,
			location.Description,
			location.FormattedAddress,
		)
		if err != nil {
			return fmt.Errorf("failed to update location: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrLocationNotFound
		}
		return touchItinerary(ctx, tx, location.ItineraryID, touchedAt)
	})
}

// DeleteLocation removes a location scoped to its itinerary and bumps the
// itinerary's updated_at to touchedAt in one transaction.
func (r *Repository) DeleteLocation(ctx context.Context, itineraryID, locationID string, touchedAt time.Time) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM locations WHERE id = $1 AND itinerary_id = $2`,
			locationID, itineraryID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete location: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrLocationNotFound
		}
		return touchItinerary(ctx, tx, itineraryID, touchedAt)
	})
}

// touchItinerary bumps updated_at inside the transaction that changed one of
// the itinerary's locations.
func touchItinerary(ctx context.Context, tx pgx.Tx, id string, at time.Time) error {
	result, err := tx.Exec(ctx, `UPDATE itineraries SET updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch itinerary: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItineraryNotFound
	}
	return nil
}

func (r *Repository) queryLocations(ctx context.Context, query string, args ...any) ([]*model.Location, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]*model.Location, 0)
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

func scanLocation(row pgx.Row) (*model.Location, error) {
	var location model.Location
	err := row.Scan(
		&location.ID,
		&location.PhotoURI,
		&location.Title,
		&location.Description,
		&location.FormattedAddress,
		&location.ItineraryID,
		&location.CreatedAt,
	)
	return &location, err
}
