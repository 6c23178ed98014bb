// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agencysite/internal/models"
)

// VisitRecorder stores one page view.
type VisitRecorder interface {
	Record(ctx context.Context, v *models.Visitor) error
}

// maxHeaderLen truncates client-supplied headers before they are stored.
const maxHeaderLen = 512

// TrackVisitors records successful GET requests, attributing them with
// ips. Tracking is best effort: a failed insert is logged and never
// affects the response.
func TrackVisitors(rec VisitRecorder, ips IPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			if r.Method != http.MethodGet || wrapped.statusCode >= 400 {
				return
			}

			v := &models.Visitor{
				IPAddress: ips.ClientIP(r),
				Path:      truncate(r.URL.Path, maxHeaderLen),
				UserAgent: optional(r.UserAgent()),
				Referrer:  optional(r.Referer()),
			}

			// The client may already be gone; the insert must still run.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
			defer cancel()
			if err := rec.Record(ctx, v); err != nil {
				slog.Warn("visitor tracking failed", "path", v.Path, "error", err)
			}
		})
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	s = truncate(s, maxHeaderLen)
	return &s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Cutting mid-rune would leave invalid UTF-8, which Postgres rejects.
	return strings.ToValidUTF8(s[:n], "")
}
