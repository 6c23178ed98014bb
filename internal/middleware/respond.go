package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends {"error": msg} with the given status. Middleware sits in
// front of a JSON API, so failures are reported the same way handlers do.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
