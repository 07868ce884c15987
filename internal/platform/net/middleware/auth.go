package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "bookmarkd/internal/platform/errors"
	pnet "bookmarkd/internal/platform/net"
)

// BearerToken requires a static bearer token on every request when token is
// non-empty; an empty token disables the check so local setups stay open
func BearerToken(token string, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				status, body := pnet.Error(perr.Unauthorizedf("invalid or missing token"), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
