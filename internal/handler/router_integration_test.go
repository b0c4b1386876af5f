//go:build integration

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/cache"
	"github.com/travelog/travelog/internal/maps"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/repository"
	"github.com/travelog/travelog/internal/service"
	"github.com/travelog/travelog/internal/testutil"
)

// newIntegrationAPI wires the router over real PostgreSQL and Redis.
func newIntegrationAPI(t *testing.T, ctx context.Context, rateLimit middleware.RateLimitConfig) *testAPI {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.ResetSchema(ctx, pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	repo, err := repository.New(ctx, dbURL, repository.DefaultPoolConfig())
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	t.Cleanup(repo.Close)

	cacheClient, err := cache.New(ctx, redisURL, cache.DefaultOptions())
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = cacheClient.Close() })
	if err := testutil.FlushRedis(ctx, cacheClient.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	tokens, err := auth.NewTokenManager(testSecret, "travelog", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	hasher := auth.NewPasswordHasher(auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	recorder := metrics.NewNoop()
	logger := discardLogger()

	rateLimit.Limiter = cacheClient

	router := NewRouter(RouterDeps{
		Logger:      logger,
		Auth:        service.NewAuthService(repo, hasher, tokens, cacheClient, recorder),
		Diary:       service.NewDiaryService(repo, repo, recorder),
		Itinerary:   service.NewItineraryService(repo, repo, recorder),
		Maps:        maps.NewClient(maps.Config{APIKey: "unused"}, nil, logger, recorder),
		Verifier:    tokens,
		Revocations: cacheClient,
		RateLimit:   rateLimit,
		Metrics:     recorder,
		DB:          repo,
		Cache:       cacheClient,
		Security:    middleware.DefaultSecurityConfig(),
		CORS:        middleware.DefaultCORSConfig(),
	})

	return &testAPI{router: router}
}

func TestIntegrationRouter_FullStack(t *testing.T) {
	ctx := context.Background()
	api := newIntegrationAPI(t, ctx, middleware.RateLimitConfig{})

	ownerToken, ownerID := api.signup(t, "owner@example.com")
	otherToken, _ := api.signup(t, "other@example.com")

	rec := api.do(t, http.MethodPost, "/diary/entry", ownerToken, map[string]any{"title": "Sintra", "price": 100, "rating": 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entry: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var entry entryBody
	decode(t, rec, &entry)
	if entry.UserID != ownerID {
		t.Errorf("owner = %s, want %s", entry.UserID, ownerID)
	}

	if rec := api.do(t, http.MethodGet, "/diary/entry/"+entry.ID, otherToken, nil); rec.Code != http.StatusOK {
		t.Errorf("read-any: status = %d", rec.Code)
	}
	expectError(t, api.do(t, http.MethodPut, "/diary/entry/"+entry.ID, otherToken, map[string]any{"title": "x"}), http.StatusUnauthorized, "UNAUTHORIZED")

	rec = api.do(t, http.MethodPost, "/itineraries", ownerToken, map[string]any{"title": "Alentejo"})
	var itinerary itineraryBody
	decode(t, rec, &itinerary)
	for _, title := range []string{"Évora", "Monsaraz"} {
		rec = api.do(t, http.MethodPost, "/itineraries/"+itinerary.ID+"/location", ownerToken, map[string]any{"title": title})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create location: status = %d, body = %s", rec.Code, rec.Body.String())
		}
	}

	rec = api.do(t, http.MethodGet, "/itineraries/"+itinerary.ID, ownerToken, nil)
	var fetched itineraryBody
	decode(t, rec, &fetched)
	if len(fetched.Locations) != 2 || fetched.Locations[0].Title != "Évora" {
		t.Errorf("locations = %+v", fetched.Locations)
	}
	if fetched.UpdatedAt == itinerary.UpdatedAt {
		t.Error("adding locations should bump updated_at")
	}

	// Logout goes through the Redis denylist.
	if rec := api.do(t, http.MethodPost, "/auth/logout", ownerToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status = %d", rec.Code)
	}
	expectError(t, api.do(t, http.MethodGet, "/itineraries", ownerToken, nil), http.StatusUnauthorized, "UNAUTHORIZED")

	if rec := api.do(t, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestIntegrationRouter_AuthRateLimit(t *testing.T) {
	ctx := context.Background()
	api := newIntegrationAPI(t, ctx, middleware.RateLimitConfig{
		Enabled:   true,
		AuthRPS:   1,
		AuthBurst: 1,
	})

	login := func() *httptest.ResponseRecorder {
		return api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
	}

	if rec := login(); rec.Code != http.StatusNotFound {
		t.Fatalf("first login: status = %d, want 404", rec.Code)
	}

	rec := login()
	expectError(t, rec, http.StatusTooManyRequests, "RATE_LIMITED")
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 should carry Retry-After")
	}
}
