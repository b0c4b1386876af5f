package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/travelog/travelog/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema applies every down migration newest-first, then every up migration.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	dir, err := MigrationsDir()
	if err != nil {
		return err
	}

	downs, err := filepath.Glob(filepath.Join(dir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("glob down migrations: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(downs)))

	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("glob up migrations: %w", err)
	}
	sort.Strings(ups)

	// golang-migrate bookkeeping would otherwise disagree with the reset tables.
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS schema_migrations"); err != nil {
		return fmt.Errorf("drop schema_migrations: %w", err)
	}

	for _, path := range append(downs, ups...) {
		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", filepath.Base(path), err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filepath.Base(path), err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// MigrationsDir returns the directory holding the embedded SQL migrations.
func MigrationsDir() (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "internal", "database", "migrations"), nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with a placeholder password hash.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           ulid.Make().String(),
		Username:     model.DefaultUsername(email),
		Email:        email,
		PasswordHash: "hash-" + strings.ReplaceAll(email, "@", "-"),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewTestDiaryEntry creates a diary entry owned by userID with sensible defaults.
func NewTestDiaryEntry(t testing.TB, userID string) *model.DiaryEntry {
	t.Helper()
	description := "A day by the sea"
	return &model.DiaryEntry{
		ID:          ulid.Make().String(),
		Title:       "Beach day",
		Description: &description,
		Price:       100,
		Rating:      5,
		UserID:      userID,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewTestItinerary creates an itinerary owned by userID.
func NewTestItinerary(t testing.TB, userID string) *model.Itinerary {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Itinerary{
		ID:          ulid.Make().String(),
		Title:       "Portugal in spring",
		Description: "Two weeks along the coast",
		UserID:      userID,
		Locations:   []*model.Location{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestLocation creates a location titled title under itineraryID.
func NewTestLocation(t testing.TB, itineraryID, title string) *model.Location {
	t.Helper()
	return &model.Location{
		ID:               ulid.Make().String(),
		PhotoURI:         "https://photos.example.com/" + strings.ToLower(title) + ".jpg",
		Title:            title,
		Description:      "Stop in " + title,
		FormattedAddress: title + ", Portugal",
		ItineraryID:      itineraryID,
		CreatedAt:        time.Now().UTC().Truncate(time.Millisecond),
	}
}
