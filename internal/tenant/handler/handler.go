package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"lendkit/internal/tenant/service"
	id "lendkit/pkg/domain"
	dErrors "lendkit/pkg/domain-errors"
	"lendkit/pkg/platform/httputil"
	"lendkit/pkg/requestcontext"
)

// Handler wires the operator-facing tenant onboarding endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs a tenant admin handler.
func New(s *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// Register mounts the admin tenant routes. The caller wraps the group with
// the admin token guard.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/tenants", h.HandleCreate)
	r.Get("/admin/tenants/{tenantID}", h.HandleGet)
	r.Post("/admin/tenants/{tenantID}/deactivate", h.HandleDeactivate)
	r.Post("/admin/tenants/{tenantID}/reactivate", h.HandleReactivate)
}

// CreateTenantRequest is the onboarding payload.
type CreateTenantRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	Domain    string `json:"domain,omitempty"`
}

func (r *CreateTenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Subdomain = strings.ToLower(strings.TrimSpace(r.Subdomain))
	r.Domain = strings.ToLower(strings.TrimSpace(r.Domain))
}

func (r *CreateTenantRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Subdomain == "" {
		return dErrors.New(dErrors.CodeValidation, "subdomain is required")
	}
	return nil
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateTenantRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	tenant, err := h.service.CreateTenant(ctx, req.Name, req.Subdomain, req.Domain)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tenant)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withTenantID(w, r, func(tenantID id.TenantID) (any, int) {
		tenant, err := h.service.GetTenant(r.Context(), tenantID)
		if err != nil {
			return err, 0
		}
		return tenant, http.StatusOK
	})
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.withTenantID(w, r, func(tenantID id.TenantID) (any, int) {
		tenant, err := h.service.DeactivateTenant(r.Context(), tenantID)
		if err != nil {
			return err, 0
		}
		return tenant, http.StatusOK
	})
}

func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	h.withTenantID(w, r, func(tenantID id.TenantID) (any, int) {
		tenant, err := h.service.ReactivateTenant(r.Context(), tenantID)
		if err != nil {
			return err, 0
		}
		return tenant, http.StatusOK
	})
}

func (h *Handler) withTenantID(w http.ResponseWriter, r *http.Request, fn func(id.TenantID) (any, int)) {
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, status := fn(tenantID)
	if err, ok := result.(error); ok {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, status, result)
}
