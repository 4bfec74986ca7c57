package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// consts
const (
	APIKeyHeader = "X-Access-Key"
)

// checkAPIKey rejects requests without the key, an empty key disables it
func checkAPIKey(key string, next http.Handler) http.Handler {
	if key == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(APIKeyHeader)
		if apiKey == "" {
			apiKey = r.FormValue("api_key")
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) != 1 {
			logger().Infow("bad api key", "remote", r.RemoteAddr, "path", r.URL.Path)
			writeJSONError(w, r, http.StatusUnauthorized, errors.New("invalid api key"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
