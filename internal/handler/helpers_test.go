package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/maps"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/service"
	"github.com/travelog/travelog/internal/testutil/memstore"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testAPI is a fully wired router over in-memory stores.
type testAPI struct {
	router   http.Handler
	store    *memstore.Store
	recorder *metrics.PrometheusRecorder
}

func newTestAPI(t *testing.T, upstream *httptest.Server) *testAPI {
	t.Helper()

	tokens, err := auth.NewTokenManager(testSecret, "travelog", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	logger := discardLogger()
	store := memstore.New()
	denylist := memstore.NewDenylist()
	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheus(registry)
	hasher := auth.NewPasswordHasher(auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})

	mapsCfg := maps.Config{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"}
	var httpClient *http.Client
	if upstream != nil {
		mapsCfg.BaseURL = upstream.URL
		httpClient = upstream.Client()
	}

	router := NewRouter(RouterDeps{
		Logger:      logger,
		Auth:        service.NewAuthService(store, hasher, tokens, denylist, recorder),
		Diary:       service.NewDiaryService(store, store, recorder),
		Itinerary:   service.NewItineraryService(store, store, recorder),
		Maps:        maps.NewClient(mapsCfg, httpClient, logger, recorder),
		Verifier:    tokens,
		Revocations: denylist,
		Metrics:     recorder,
		Gatherer:    registry,
		DB:          store,
		Security:    middleware.DefaultSecurityConfig(),
		CORS:        middleware.DefaultCORSConfig(),
	})

	return &testAPI{router: router, store: store, recorder: recorder}
}

// do sends a request with an optional JSON body and bearer token.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signup registers email and returns the access token and user ID.
func (a *testAPI) signup(t *testing.T, email string) (token, userID string) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status = %d, body = %s", email, rec.Code, rec.Body.String())
	}
	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, rec, &tokenResp)

	rec = a.do(t, http.MethodGet, "/auth/me", tokenResp.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var me struct {
		ID string `json:"id"`
	}
	decode(t, rec, &me)

	return tokenResp.AccessToken, me.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// envelope is the decoded error body.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Timestamp  string          `json:"timestamp"`
	Path       string          `json:"path"`
	Code       string          `json:"code"`
	Error      json.RawMessage `json:"error"`
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var env envelope
	decode(t, rec, &env)
	if env.StatusCode != status || env.Code != code {
		t.Fatalf("envelope = %+v, want status %d code %s", env, status, code)
	}
	if env.Timestamp == "" || env.Path == "" {
		t.Errorf("envelope missing timestamp or path: %+v", env)
	}
	return env
}

func (e envelope) message(t *testing.T) string {
	t.Helper()
	var msg string
	if err := json.Unmarshal(e.Error, &msg); err != nil {
		t.Fatalf("error payload is not a string: %s", e.Error)
	}
	return msg
}
