package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dialogamente/backend/internal/httputil"
	"github.com/stretchr/testify/assert"
)

type fakeParser map[string]int64

func (f fakeParser) Parse(raw string) (int64, error) {
	if uid, ok := f[raw]; ok {
		return uid, nil
	}
	return 0, errors.New("bad token")
}

func TestAuthMiddleware(t *testing.T) {
	var seen int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httputil.UserID(r)
		w.WriteHeader(http.StatusNoContent)
	})
	h := AuthMiddleware(fakeParser{"good": 11})(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, int64(11), seen)
}
