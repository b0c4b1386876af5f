package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/cache"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
)

// fakeLimiter allows the first `allow` calls per key, then rejects.
type fakeLimiter struct {
	allow int
	seen  map[string]int
	err   error
}

func newFakeLimiter(allow int) *fakeLimiter {
	return &fakeLimiter{allow: allow, seen: make(map[string]int)}
}

func (f *fakeLimiter) check(key string) (*cache.RateLimitResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.seen[key]++
	remaining := f.allow - f.seen[key]
	if remaining < 0 {
		return &cache.RateLimitResult{Allowed: false, RetryAfter: 2 * time.Second, ResetAt: time.Now().Add(2 * time.Second)}, nil
	}
	return &cache.RateLimitResult{Allowed: true, Remaining: int64(remaining), ResetAt: time.Now().Add(time.Second)}, nil
}

func (f *fakeLimiter) CheckUserRateLimit(ctx context.Context, userID string, ratePerMinute, burst int) (*cache.RateLimitResult, error) {
	return f.check("user:" + userID)
}

func (f *fakeLimiter) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error) {
	return f.check("ip:" + ip)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withUser(r *http.Request, userID string) *http.Request {
	ctx := auth.ContextWithIdentity(r.Context(), &model.Identity{UserID: userID})
	return r.WithContext(ctx)
}

func TestRateLimitUser(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	limiter := newFakeLimiter(2)
	handler := RateLimitUser(RateLimitConfig{
		Logger:    discardLogger(),
		Limiter:   limiter,
		Metrics:   recorder,
		Enabled:   true,
		UserRPM:   120,
		UserBurst: 2,
	})(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/diary/entries", nil), "user-1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "120" {
			t.Errorf("X-RateLimit-Limit = %q", rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/diary/entries", nil), "user-1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "2" {
		t.Errorf("Retry-After = %q, want 2", rec.Header().Get("Retry-After"))
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("429 body is not JSON: %v", err)
	}
	if body["code"] != "RATE_LIMITED" || body["statusCode"] != float64(429) {
		t.Errorf("unexpected envelope: %v", body)
	}
	if recorder.Snapshot().RateLimited["user"] != 1 {
		t.Error("rejection should be recorded")
	}

	// Another user has its own bucket.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/diary/entries", nil), "user-2"))
	if rec.Code != http.StatusOK {
		t.Errorf("other user: status = %d, want 200", rec.Code)
	}
}

func TestRateLimitUser_Bypass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     RateLimitConfig
		userID  string
		limiter *fakeLimiter
	}{
		{"disabled", RateLimitConfig{Enabled: false, UserRPM: 1}, "user-1", newFakeLimiter(0)},
		{"anonymous", RateLimitConfig{Enabled: true, UserRPM: 1}, "", newFakeLimiter(0)},
		{"unlimited", RateLimitConfig{Enabled: true, UserRPM: 0}, "user-1", newFakeLimiter(0)},
		{"backend error fails open", RateLimitConfig{Enabled: true, UserRPM: 1}, "user-1", &fakeLimiter{err: errors.New("redis down")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			cfg.Logger = discardLogger()
			cfg.Limiter = tt.limiter
			handler := RateLimitUser(cfg)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/itineraries", nil)
			if tt.userID != "" {
				req = withUser(req, tt.userID)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestRateLimitIP(t *testing.T) {
	t.Parallel()

	limiter := newFakeLimiter(1)
	handler := RateLimitIP(RateLimitConfig{
		Logger:    discardLogger(),
		Limiter:   limiter,
		Enabled:   true,
		AuthRPS:   5,
		AuthBurst: 1,
	})(okHandler())

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.7:5000"); code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", code)
	}
	// Same host, different port shares the bucket.
	if code := send("203.0.113.7:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", code)
	}
	if code := send("198.51.100.1:5000"); code != http.StatusOK {
		t.Errorf("other IP: status = %d, want 200", code)
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		tt := tt
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := getClientIP(req); got != tt.want {
			t.Errorf("getClientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}
