package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/travelog/travelog/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, "travelog", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return m
}

func TestNewTokenManager_RejectsWeakSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("short", "travelog", time.Hour); !errors.Is(err, ErrWeakSecret) {
		t.Errorf("expected ErrWeakSecret, got %v", err)
	}
	if _, err := NewTokenManager(testSecret, "travelog", 0); err == nil {
		t.Error("expected error for zero expiry")
	}
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	token, expiresAt, err := m.Issue("01HUSER")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token should be a compact JWS, got %q", token)
	}

	id, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if id.UserID != "01HUSER" {
		t.Errorf("UserID = %q, want 01HUSER", id.UserID)
	}
	if id.Token != token {
		t.Error("Identity should carry the raw token")
	}
	if !id.ExpiresAt.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("ExpiresAt = %v, want %v", id.ExpiresAt, expiresAt.Truncate(time.Second))
	}
}

func TestTokenManager_TokensAreUnique(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	a, _, _ := m.Issue("01HUSER")
	b, _, _ := m.Issue("01HUSER")
	if a == b {
		t.Error("two tokens for the same user should differ")
	}
}

func TestTokenManager_VerifyRejects(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	valid, _, err := m.Issue("01HUSER")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	otherSecret, _ := NewTokenManager("ffffffffffffffffffffffffffffffff", "travelog", time.Hour)
	foreign, _, _ := otherSecret.Issue("01HUSER")

	otherIssuer, _ := NewTokenManager(testSecret, "someone-else", time.Hour)
	wrongIss, _, _ := otherIssuer.Issue("01HUSER")

	expired := newTestManager(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, _ := expired.Issue("01HUSER")

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "01HUSER",
		Issuer:    "travelog",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "travelog",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"foreign secret", foreign},
		{"wrong issuer", wrongIss},
		{"expired", stale},
		{"alg none", none},
		{"missing subject", noSubject},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := m.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify(%s) error = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if IdentityFromContext(ctx) != nil {
		t.Error("empty context should carry no identity")
	}
	if UserIDFromContext(ctx) != "" {
		t.Error("empty context should yield empty user id")
	}

	ctx = ContextWithIdentity(ctx, &model.Identity{UserID: "01HUSER"})
	if got := UserIDFromContext(ctx); got != "01HUSER" {
		t.Errorf("UserIDFromContext = %q, want 01HUSER", got)
	}
}
