package middleware

import (
	"crypto/subtle"
	"net/http"

	dErrors "lendkit/pkg/domain-errors"
	"lendkit/pkg/platform/httputil"
)

// HeaderAdminToken guards the operator-facing onboarding surface.
const HeaderAdminToken = "X-Admin-Token"

// AdminOnly rejects requests that do not carry the configured admin token.
// An empty configured token disables the surface entirely.
func AdminOnly(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get(HeaderAdminToken)
			if token == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
