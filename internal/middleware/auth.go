package middleware

import (
	"net/http"
	"strings"

	"github.com/dialogamente/backend/internal/httputil"
)

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	Parse(raw string) (int64, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the user id in the request context.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			userID, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(httputil.WithUserID(r.Context(), userID)))
		})
	}
}
