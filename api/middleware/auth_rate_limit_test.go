package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/types"
)

type fakeLimiterStore struct {
	counts map[string]int64
}

func (f *fakeLimiterStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	count := f.counts[scope]
	return count <= limit, count, nil
}

func rateLimitedHandler(t *testing.T, policy AuthRateLimitPolicy, store RateLimiterStore) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the middleware must hand the body back intact
		payload, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(payload), "email")
		w.WriteHeader(http.StatusNoContent)
	})
	return AuthRateLimit(policy, store, logg)(next)
}

func loginRequest(email string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/v1/auth/user/login",
		strings.NewReader(`{"email":"`+email+`","password":"secret123"}`))
}

func TestAuthRateLimitAllowsUnderLimit(t *testing.T) {
	handler := rateLimitedHandler(t, AuthRateLimitPolicy{
		Name: "login", Window: time.Minute, IPLimit: 5, EmailLimit: 5,
	}, &fakeLimiterStore{})

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("diner@example.com"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestAuthRateLimitBlocksEmailOverLimit(t *testing.T) {
	handler := rateLimitedHandler(t, AuthRateLimitPolicy{
		Name: "login", Window: time.Minute, IPLimit: 100, EmailLimit: 2,
	}, &fakeLimiterStore{})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("diner@example.com"))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("diner@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeRateLimit), envelope.Error.Code)
}

func TestAuthRateLimitEmailCaseInsensitive(t *testing.T) {
	store := &fakeLimiterStore{}
	handler := rateLimitedHandler(t, AuthRateLimitPolicy{
		Name: "login", Window: time.Minute, EmailLimit: 1,
	}, store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("Diner@Example.com"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("diner@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimitBlocksIPAcrossEmails(t *testing.T) {
	handler := rateLimitedHandler(t, AuthRateLimitPolicy{
		Name: "login", Window: time.Minute, IPLimit: 1, EmailLimit: 100,
	}, &fakeLimiterStore{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("first@example.com"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("second@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimitDisabledWithoutStore(t *testing.T) {
	handler := rateLimitedHandler(t, AuthRateLimitPolicy{
		Name: "login", Window: time.Minute, IPLimit: 1, EmailLimit: 1,
	}, nil)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("diner@example.com"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := loginRequest("diner@example.com")
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(r))

	r = loginRequest("diner@example.com")
	r.RemoteAddr = "198.51.100.7:52011"
	assert.Equal(t, "198.51.100.7", clientIP(r))
}
