package middleware

import (
	"net"
	"net/http"
	"strings"
)

// IPResolver extracts the client address of a request. Forwarding headers
// are only honoured with TrustProxy, which is correct only when every
// request passes through a reverse proxy that overwrites them. Otherwise a
// client could pick its own address for the visitor log and the limiters.
type IPResolver struct {
	TrustProxy bool
}

// ClientIP returns the client address: the leftmost X-Forwarded-For entry
// or X-Real-IP behind a trusted proxy, else the host part of RemoteAddr.
func (p IPResolver) ClientIP(r *http.Request) string {
	if p.TrustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
