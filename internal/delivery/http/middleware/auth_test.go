package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier implements domain.TokenVerifier.
type fakeVerifier struct {
	userID int64
	err    error
}

func (f fakeVerifier) Verify(token string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.userID, nil
}

func TestRequireAuth(t *testing.T) {
	handler := func(gotID *int64, called *bool) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			*called = true
			if id, ok := UserIDFromContext(r.Context()); ok {
				*gotID = id
			}
			w.WriteHeader(http.StatusOK)
		}
	}

	t.Run("valid token sets user ID", func(t *testing.T) {
		var gotID int64
		var called bool
		wrapped := RequireAuth(fakeVerifier{userID: 42})(handler(&gotID, &called))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/waitlist", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		wrapped(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
		assert.Equal(t, int64(42), gotID)
	})

	t.Run("missing header", func(t *testing.T) {
		var gotID int64
		var called bool
		wrapped := RequireAuth(fakeVerifier{userID: 42})(handler(&gotID, &called))

		w := httptest.NewRecorder()
		wrapped(w, httptest.NewRequest(http.MethodGet, "/api/waitlist", nil))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		var gotID int64
		var called bool
		wrapped := RequireAuth(fakeVerifier{userID: 42})(handler(&gotID, &called))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/waitlist", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		wrapped(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})

	t.Run("invalid token", func(t *testing.T) {
		var gotID int64
		var called bool
		wrapped := RequireAuth(fakeVerifier{err: errors.New("expired")})(handler(&gotID, &called))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/waitlist", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		wrapped(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})
}

func TestRateLimit(t *testing.T) {
	wrapped := RateLimit(1, 2)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/waitlist", nil)
		req.RemoteAddr = "203.0.113.5:41234"
		wrapped(w, req)
		codes = append(codes, w.Code)
	}

	// Burst of 2 allowed, third request rejected.
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/waitlist", nil)
	req.RemoteAddr = "203.0.113.9:41234"
	wrapped(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
