// Package middleware publishes the tenant scope for each request. It is the
// single writer of the scope: resolution (including any store lookup)
// completes before the scope enters the request context, and nothing mutates
// it afterward, so concurrent requests can never observe each other's tenant.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"lendkit/internal/tenant/service"
	dErrors "lendkit/pkg/domain-errors"
	"lendkit/pkg/platform/httputil"
	"lendkit/pkg/requestcontext"
)

// TenantClaim is the JWT claim carrying an authenticated tenant id.
const TenantClaim = "tid"

// HeaderTenantID is the explicit tenant header trusted from internal callers.
const HeaderTenantID = "X-Tenant-ID"

// Resolve extracts request signals, resolves the tenant, and publishes the
// scope. Resolution failure is not an error here: public endpoints may serve
// without a tenant, and protected ones are guarded by RequireTenant.
func Resolve(resolver *service.Resolver, jwtSigningKey []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sig := service.Signals{
				TenantClaim: claimFrom(r, jwtSigningKey),
				Host:        r.Host,
			}

			tenantID, err := resolver.Resolve(ctx, sig)
			switch {
			case err == nil:
				ctx = requestcontext.WithTenantID(ctx, tenantID)
			case errors.Is(err, service.ErrNoTenant):
				// No scope; downstream guards decide.
			default:
				logger.ErrorContext(ctx, "tenant resolution failed",
					"error", err,
					"host", sig.Host,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests that reach a protected route without a
// resolved tenant scope.
func RequireTenant(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !requestcontext.HasTenant(ctx) {
				logger.WarnContext(ctx, "request rejected - no tenant scope",
					"host", r.Host,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no tenant resolved for request"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// claimFrom pulls an authenticated tenant id, preferring the explicit header
// (internal traffic) and falling back to the bearer token's tenant claim.
// Invalid tokens yield no claim rather than an error; resolution then
// proceeds on host signals.
func claimFrom(r *http.Request, jwtSigningKey []byte) string {
	if v := r.Header.Get(HeaderTenantID); v != "" {
		return v
	}

	authHeader := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || len(jwtSigningKey) == 0 {
		return ""
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSigningKey, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	tid, _ := claims[TenantClaim].(string)
	return tid
}
