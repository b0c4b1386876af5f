package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/travelog/travelog/internal/model"
)

// ErrDiaryEntryNotFound is returned when no entry matches the given ID.
var ErrDiaryEntryNotFound = errors.New("diary entry not found")

const diaryEntryColumns = `id, title, description, photo_uri, price, rating, formatted_address, journal, user_id, created_at`

// CreateDiaryEntry inserts a new diary entry.
func (r *Repository) CreateDiaryEntry(ctx context.Context, entry *model.DiaryEntry) error {
	query := `
		INSERT INTO diary_entries (` + diaryEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.Title,
		entry.Description,
		entry.PhotoURI,
		entry.Price,
		entry.Rating,
		entry.FormattedAddress,
		entry.Journal,
		entry.UserID,
		entry.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create diary entry: %w", err)
	}

	return nil
}

// GetDiaryEntryByID retrieves a diary entry by its ID.
func (r *Repository) GetDiaryEntryByID(ctx context.Context, id string) (*model.DiaryEntry, error) {
	query := `SELECT ` + diaryEntryColumns + ` FROM diary_entries WHERE id = $1`

	entry, err := scanDiaryEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDiaryEntryNotFound
		}
		return nil, fmt.Errorf("failed to get diary entry by ID: %w", err)
	}

	return entry, nil
}

// ListDiaryEntriesByUser returns every entry owned by userID in insertion order.
func (r *Repository) ListDiaryEntriesByUser(ctx context.Context, userID string) ([]*model.DiaryEntry, error) {
	query := `
		SELECT ` + diaryEntryColumns + `
		FROM diary_entries
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	return r.queryDiaryEntries(ctx, query, userID)
}

// ListDiaryEntries returns one page of entries across all owners.
func (r *Repository) ListDiaryEntries(ctx context.Context, offset, limit int) ([]*model.DiaryEntry, error) {
	query := `
		SELECT ` + diaryEntryColumns + `
		FROM diary_entries
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`

	return r.queryDiaryEntries(ctx, query, offset, limit)
}

// UpdateDiaryEntry writes every mutable field of entry.
func (r *Repository) UpdateDiaryEntry(ctx context.Context, entry *model.DiaryEntry) error {
	query := `
		UPDATE diary_entries
		SET title = $2, description = $3, photo_uri = $4, price = $5, rating = $6,
		    formatted_address = $7, journal = $8
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.Title,
		entry.Description,
		entry.PhotoURI,
		entry.Price,
		entry.Rating,
		entry.FormattedAddress,
		entry.Journal,
	)
	if err != nil {
		return fmt.Errorf("failed to update diary entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDiaryEntryNotFound
	}

	return nil
}

// DeleteDiaryEntry removes a diary entry.
func (r *Repository) DeleteDiaryEntry(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM diary_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete diary entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDiaryEntryNotFound
	}

	return nil
}

func (r *Repository) queryDiaryEntries(ctx context.Context, query string, args ...any) ([]*model.DiaryEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.DiaryEntry, 0)
	for rows.Next() {
		entry, err := scanDiaryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan diary entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diary entries: %w", err)
	}

	return entries, nil
}

// scanDiaryEntry scans a single row into a DiaryEntry model.
// pgx.Rows satisfies pgx.Row, so this serves both QueryRow and Query.
func scanDiaryEntry(row pgx.Row) (*model.DiaryEntry, error) {
	var entry model.DiaryEntry
	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&entry.Description,
		&entry.PhotoURI,
		&entry.Price,
		&entry.Rating,
		&entry.FormattedAddress,
		&entry.Journal,
		&entry.UserID,
		&entry.CreatedAt,
	)
	return &entry, err
}
