// Package httptransport assembles the HTTP surface: platform middleware,
// tenant resolution, and the per-module route groups. It holds no business
// logic; modules register their own routes.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	formhandler "lendkit/internal/form/handler"
	platformmw "lendkit/internal/platform/middleware"
	producthandler "lendkit/internal/product/handler"
	tenanthandler "lendkit/internal/tenant/handler"
	tenantmw "lendkit/internal/tenant/middleware"
	tenantservice "lendkit/internal/tenant/service"
	"lendkit/pkg/platform/httputil"
)

// Deps carries everything the router needs; all fields are required except
// where noted.
type Deps struct {
	Logger   *slog.Logger
	Resolver *tenantservice.Resolver

	TenantHandler  *tenanthandler.Handler
	FormHandler    *formhandler.Handler
	ProductHandler *producthandler.Handler

	// JWTSigningKey validates bearer tokens carrying a tenant claim. Empty
	// disables token-based resolution.
	JWTSigningKey []byte

	// AdminToken guards the operator surface. Empty disables it.
	AdminToken string
}

// NewRouter builds the full route tree.
//
// Tenant resolution runs on every request, but only the borrower-facing
// groups demand a resolved scope. The operator surface and the operational
// endpoints serve without one.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(platformmw.RequestMeta)
	r.Use(tenantmw.Resolve(d.Resolver, d.JWTSigningKey, d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(tenantmw.RequireTenant(d.Logger))
		d.FormHandler.Register(r)
		d.ProductHandler.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(platformmw.AdminOnly(d.AdminToken))
		d.TenantHandler.Register(r)
	})

	return r
}
