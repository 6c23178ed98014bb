package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/session/valkeytest"
)

// limiterClient returns a Valkey client on the database reserved for this
// package's tests.
func limiterClient(t *testing.T) *redis.Client {
	t.Helper()
	return valkeytest.Client(t, 12)
}

func TestRateLimiterAllow(t *testing.T) {
	client := limiterClient(t)
	ctx := context.Background()
	rl := NewRateLimiter(client, "login", 3, time.Minute, IPResolver{})

	for i := 0; i < 3; i++ {
		ok, _, err := rl.allow(ctx, "192.0.2.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, wait, err := rl.allow(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.False(t, ok, "4th request should be rate-limited")
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Minute)

	ok, _, _ = rl.allow(ctx, "192.0.2.2")
	assert.True(t, ok, "different IP should be allowed")

	other := NewRateLimiter(client, "enquiry", 3, time.Minute, IPResolver{})
	ok, _, _ = other.allow(ctx, "192.0.2.1")
	assert.True(t, ok, "routes keep separate budgets")
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(limiterClient(t), "login", 1, time.Second, IPResolver{})
	ctx := context.Background()

	ok, _, _ := rl.allow(ctx, "192.0.2.1")
	require.True(t, ok)
	ok, _, _ = rl.allow(ctx, "192.0.2.1")
	require.False(t, ok)

	time.Sleep(1100 * time.Millisecond)
	ok, _, err := rl.allow(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.True(t, ok, "allowed after window expires")
}

func TestRateLimiterMiddleware(t *testing.T) {
	captureLogs(t)
	rl := NewRateLimiter(limiterClient(t), "enquiry", 1, time.Minute, IPResolver{})

	next, _ := okHandler()
	h := rl.Middleware(next)

	req := httptest.NewRequest(http.MethodPost, "/api/enquiries", nil)
	req.RemoteAddr = "192.0.2.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A spoofed header does not buy a fresh budget without a trusted proxy.
	req.Header.Set("X-Forwarded-For", "203.0.113.77")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimiterFailsOpen(t *testing.T) {
	buf := captureLogs(t)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { client.Close() })
	rl := NewRateLimiter(client, "login", 1, time.Minute, IPResolver{})

	next, called := okHandler()
	rec := httptest.NewRecorder()
	rl.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/api/login", nil))
	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "rate limiter unavailable")
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 60, retryAfter(60*time.Second, time.Minute))
	assert.Equal(t, 2, retryAfter(1500*time.Millisecond, time.Minute))
	assert.Equal(t, 1, retryAfter(time.Millisecond, time.Minute))
	assert.Equal(t, 60, retryAfter(-1, time.Minute), "missing TTL falls back to the window")
}
