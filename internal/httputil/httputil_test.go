package httputil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Kind   string `json:"kind" validate:"required,oneof=share market_view"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		detail  string
	}{
		{"valid", `{"rating":3,"kind":"share"}`, false, ""},
		{"malformed", `{"rating":`, true, ""},
		{"out of range", `{"rating":9,"kind":"share"}`, true, "sample.rating must satisfy max=5"},
		{"bad kind", `{"rating":2,"kind":"like"}`, true, "sample.kind must be one of [share market_view]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst sample
			err := DecodeAndValidate(r, &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			if tt.detail != "" {
				assert.Contains(t, reqErr.Details, tt.detail)
			}
		})
	}
}

func TestWriteRequestError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteRequestError(rec, &RequestError{Message: "Validation failed", Details: []string{"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Validation failed","details":["x"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteRequestError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUserIDRoundTrip(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserID(r)
	assert.False(t, ok)

	r = r.WithContext(WithUserID(r.Context(), 42))
	uid, ok := UserID(r)
	assert.True(t, ok)
	assert.Equal(t, int64(42), uid)
}

func TestIntQueryParam(t *testing.T) {
	q := url.Values{"limit": {"5"}, "bad": {"x"}}
	if got := IntQueryParam(q, "limit", 20); got != 5 {
		t.Errorf("IntQueryParam(limit) = %d, want 5", got)
	}
	if got := IntQueryParam(q, "bad", 20); got != 20 {
		t.Errorf("IntQueryParam(bad) = %d, want 20", got)
	}
	if got := IntQueryParam(q, "missing", 20); got != 20 {
		t.Errorf("IntQueryParam(missing) = %d, want 20", got)
	}
}
