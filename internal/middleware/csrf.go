package middleware

import (
	"crypto/subtle"
	"net/http"
)

// CSRFHeaderName is the header the admin client echoes the session's
// CSRF token in. The token is returned by GET /admin/api/me.
const CSRFHeaderName = "X-CSRF-Token"

// CSRF rejects state-changing requests (POST, PUT, PATCH, DELETE) made
// with a session cookie unless they carry the token bound to that session.
// Requests without a session pass through; RequireAuth decides whether
// they are allowed at all. Must be applied after LoadSession.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		sess := SessionFromCtx(r.Context())
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		submitted := r.Header.Get(CSRFHeaderName)
		if sess.CSRFToken == "" || subtle.ConstantTimeCompare([]byte(sess.CSRFToken), []byte(submitted)) != 1 {
			writeError(w, http.StatusForbidden, "CSRF token mismatch")
			return
		}

		next.ServeHTTP(w, r)
	})
}
