package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIKeyAuth returns middleware enforcing the X-API-Key header. Comparison is
// constant-time. An empty expected key means the server was started without
// one; every request is rejected rather than silently letting traffic
// through.
func APIKeyAuth(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expectedKey == "" {
				writeAuthError(w, http.StatusInternalServerError, "server_misconfigured",
					"API key authentication is not configured")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing_api_key",
					"X-API-Key header is required")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(expectedKey)) != 1 {
				writeAuthError(w, http.StatusForbidden, "invalid_api_key",
					"invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
