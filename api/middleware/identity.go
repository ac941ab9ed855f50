package middleware

import (
	"net/http"
	"strings"

	"github.com/rmagtibay/tindera-backend/pkg/logger"
)

const (
	userIDHeader    = "X-User-Id"
	sessionIDHeader = "X-Session-Id"
)

// Identity lifts the caller-supplied user and register session identifiers
// off their headers into the request context. Authentication happens at the
// gateway; the identifiers are trusted as-is here.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID := strings.TrimSpace(r.Header.Get(userIDHeader)); userID != "" {
				ctx = WithUserID(ctx, userID)
				if logg != nil {
					ctx = logg.WithUserID(ctx, userID)
				}
			}
			if sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader)); sessionID != "" {
				ctx = WithSessionID(ctx, sessionID)
				if logg != nil {
					ctx = logg.WithSessionID(ctx, sessionID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
