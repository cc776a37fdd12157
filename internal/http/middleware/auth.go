// Package middleware holds the HTTP middleware shared by routes.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// RequireKey gates requests behind a static shared secret supplied as
// the key query parameter. An empty secret disables the gate entirely:
// fail-open when unconfigured is the intended policy for displays on a
// trusted network, not an oversight.
func RequireKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			supplied := r.URL.Query().Get("key")
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
