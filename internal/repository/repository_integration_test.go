//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/testutil"
)

func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.pool)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.ResetSchema(ctx, repo.pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

func createUser(t *testing.T, ctx context.Context, repo *Repository, email string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, email)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestIntegrationUser_CreateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := createUser(t, ctx, repo, "ada@example.com")

	byEmail, err := repo.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.PasswordHash != user.PasswordHash {
		t.Errorf("unexpected user: %+v", byEmail)
	}

	dup := testutil.NewTestUser(t, "ada@example.com")
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if _, err := repo.GetUserByID(ctx, ulid.Make().String()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIntegrationDiary_CRUDAndPagination(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	owner := createUser(t, ctx, repo, "owner@example.com")

	base := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for i := 0; i < 12; i++ {
		entry := testutil.NewTestDiaryEntry(t, owner.ID)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.CreateDiaryEntry(ctx, entry); err != nil {
			t.Fatalf("create entry %d: %v", i, err)
		}
		ids = append(ids, entry.ID)
	}

	page, err := repo.ListDiaryEntries(ctx, 5, 5)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 5 || page[0].ID != ids[5] {
		t.Fatalf("page 2 of 5 should start at entry 5, got %d entries starting %s", len(page), page[0].ID)
	}

	owned, err := repo.ListDiaryEntriesByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(owned) != 12 {
		t.Fatalf("expected 12 owned entries, got %d", len(owned))
	}

	entry, err := repo.GetDiaryEntryByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	entry.Title = "Updated"
	entry.Rating = 4.5
	if err := repo.UpdateDiaryEntry(ctx, entry); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := repo.GetDiaryEntryByID(ctx, ids[0])
	if updated.Title != "Updated" || updated.Rating != 4.5 {
		t.Errorf("update not persisted: %+v", updated)
	}

	if err := repo.DeleteDiaryEntry(ctx, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteDiaryEntry(ctx, ids[0]); !errors.Is(err, ErrDiaryEntryNotFound) {
		t.Fatalf("expected ErrDiaryEntryNotFound on second delete, got %v", err)
	}

	orphan := testutil.NewTestDiaryEntry(t, ulid.Make().String())
	if err := repo.CreateDiaryEntry(ctx, orphan); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown owner, got %v", err)
	}
}

func TestIntegrationItinerary_LocationsCascade(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	owner := createUser(t, ctx, repo, "planner@example.com")
	itinerary := testutil.NewTestItinerary(t, owner.ID)
	if err := repo.CreateItinerary(ctx, itinerary); err != nil {
		t.Fatalf("create itinerary: %v", err)
	}

	first := testutil.NewTestLocation(t, itinerary.ID, "Lisbon")
	second := testutil.NewTestLocation(t, itinerary.ID, "Porto")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	touchedAt := itinerary.UpdatedAt.Add(time.Hour)
	for _, loc := range []*model.Location{first, second} {
		if err := repo.CreateLocation(ctx, loc, touchedAt); err != nil {
			t.Fatalf("create location: %v", err)
		}
	}

	reloaded, err := repo.GetItineraryByID(ctx, itinerary.ID)
	if err != nil {
		t.Fatalf("reload itinerary: %v", err)
	}
	if !reloaded.UpdatedAt.Equal(touchedAt) {
		t.Fatalf("updated_at = %v, want %v", reloaded.UpdatedAt, touchedAt)
	}

	orphan := testutil.NewTestLocation(t, ulid.Make().String(), "Nowhere")
	if err := repo.CreateLocation(ctx, orphan, touchedAt); !errors.Is(err, ErrItineraryNotFound) {
		t.Fatalf("create under missing itinerary: got %v, want ErrItineraryNotFound", err)
	}

	locations, err := repo.ListLocationsByItinerary(ctx, itinerary.ID)
	if err != nil {
		t.Fatalf("list locations: %v", err)
	}
	if len(locations) != 2 || locations[0].Title != "Lisbon" || locations[1].Title != "Porto" {
		t.Fatalf("unexpected locations order: %+v", locations)
	}

	batched, err := repo.ListLocationsByItineraries(ctx, []string{itinerary.ID})
	if err != nil {
		t.Fatalf("batched list: %v", err)
	}
	if len(batched) != 2 {
		t.Fatalf("expected 2 batched locations, got %d", len(batched))
	}

	if _, err := repo.GetLocation(ctx, ulid.Make().String(), first.ID); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("location must be scoped to its itinerary, got %v", err)
	}

	if err := repo.DeleteItinerary(ctx, itinerary.ID); err != nil {
		t.Fatalf("delete itinerary: %v", err)
	}
	if _, err := repo.GetLocation(ctx, itinerary.ID, first.ID); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected cascade delete of locations, got %v", err)
	}
}
