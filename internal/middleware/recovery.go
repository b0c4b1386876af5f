package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/travelog/travelog/internal/apierror"
)

// Recoverer turns a handler panic into the generic 500 envelope and logs the
// stack. http.ErrAbortHandler is re-raised so net/http can abort the response.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)
				apierror.Internal(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
