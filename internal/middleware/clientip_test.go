package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		trust  bool
		header map[string]string
		remote string
		want   string
	}{
		{"remote addr", false, nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote", false, nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"no port", false, nil, "192.0.2.1", "192.0.2.1"},
		{"untrusted forwarded for", false, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.1:1", "10.0.0.1"},
		{"untrusted real ip", false, map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.1:1", "10.0.0.1"},
		{"trusted forwarded for", true, map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.5"},
		{"trusted real ip", true, map[string]string{"X-Real-IP": " 198.51.100.7 "}, "10.0.0.1:1", "198.51.100.7"},
		{"trusted without headers", true, nil, "10.0.0.1:1", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, IPResolver{TrustProxy: tt.trust}.ClientIP(req))
		})
	}
}
