package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth only lets requests through whose Authorization header is
// "Bearer <secret>". Rejected requests are handed to deny. An empty secret
// rejects every request.
func BearerAuth(secret string, deny http.HandlerFunc) func(next http.Handler) http.Handler {
	if deny == nil {
		deny = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		}
	}
	expected := []byte("Bearer " + secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))

			if secret == "" || subtle.ConstantTimeCompare([]byte(header), expected) != 1 {
				deny(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
