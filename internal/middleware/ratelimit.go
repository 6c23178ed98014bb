// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter caps the requests one client address may make to a route in
// fixed windows. Counters live in Valkey next to the sessions, so every
// server instance enforces the same budget and restarts do not reset it.
type RateLimiter struct {
	client *redis.Client
	name   string
	limit  int
	window time.Duration
	ips    IPResolver
}

// NewRateLimiter returns a limiter allowing limit requests per window.
// name separates the counters of different routes ("login", "enquiry").
// window is rounded up to whole seconds by Valkey.
func NewRateLimiter(client *redis.Client, name string, limit int, window time.Duration, ips IPResolver) *RateLimiter {
	return &RateLimiter{client: client, name: name, limit: limit, window: window, ips: ips}
}

func (rl *RateLimiter) key(ip string) string {
	return "ratelimit:" + rl.name + ":" + ip
}

// allow counts one request from ip. It reports whether the request fits in
// the current window and how long until that window ends.
func (rl *RateLimiter) allow(ctx context.Context, ip string) (bool, time.Duration, error) {
	key := rl.key(ip)

	pipe := rl.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rl.window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("rate limit %s: %w", rl.name, err)
	}
	return count.Val() <= int64(rl.limit), ttl.Val(), nil
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. When Valkey is unreachable requests are let through; the
// failure is logged.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.ips.ClientIP(r)
		ok, wait, err := rl.allow(r.Context(), ip)
		if err != nil {
			slog.Warn("rate limiter unavailable", "limiter", rl.name, "error", err)
		}
		if !ok {
			slog.Warn("rate limit exceeded", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter(wait, rl.window)))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter converts the remaining window to whole seconds, at least 1.
// A key without a TTL (negative wait) falls back to the full window.
func retryAfter(wait, window time.Duration) int {
	if wait <= 0 {
		wait = window
	}
	return max(1, int(math.Ceil(wait.Seconds())))
}
