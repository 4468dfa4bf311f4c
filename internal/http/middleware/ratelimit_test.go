package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wolfman30/landing-leads/internal/ratelimit"
)

type errLimiter struct{}

func (errLimiter) Check(ctx context.Context, id string) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis down")
}

func TestRateLimit_RejectsAfterMax(t *testing.T) {
	limiter := ratelimit.NewMemory(ratelimit.Config{Window: time.Minute, Max: 2})
	h := RateLimit(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234").Code)
	rec := do("10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"success":false`)

	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234").Code, "other clients are unaffected")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	called := false
	h := RateLimit(errLimiter{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/leads", nil))
	assert.True(t, called)
}
