package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/travelog/travelog/internal/apierror"
	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/model"
)

// TokenVerifier validates a bearer token and returns the caller.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// RevocationChecker reports whether a token has been logged out.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier TokenVerifier
	// Revocations is optional; nil disables the denylist check.
	Revocations RevocationChecker
}

// Auth returns a middleware that authenticates requests with a bearer token
// and injects the caller Identity into the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				apierror.Unauthorized(w, r)
				return
			}

			identity, err := cfg.Verifier.Verify(token)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_token")
				apierror.Unauthorized(w, r)
				return
			}

			if cfg.Revocations != nil {
				revoked, err := cfg.Revocations.IsTokenRevoked(r.Context(), token)
				if err != nil {
					// Fail closed: a token we cannot check is not trusted.
					cfg.Logger.Error("revocation check failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					apierror.Internal(w, r)
					return
				}
				if revoked {
					logAuthFailure(cfg.Logger, r, "revoked_token")
					apierror.Unauthorized(w, r)
					return
				}
			}

			setLogUserID(r.Context(), identity.UserID)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func extractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}
