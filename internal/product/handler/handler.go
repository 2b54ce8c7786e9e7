package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lendkit/internal/product/models"
	"lendkit/internal/product/service"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/httputil"
	"lendkit/pkg/requestcontext"
)

// Handler wires the borrower-facing eligibility endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs a product handler.
func New(s *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// Register mounts product routes. The caller wraps the group with the tenant
// scope guard.
func (h *Handler) Register(r chi.Router) {
	r.Post("/products/{productID}/eligibility", h.HandleCheckEligibility)
	r.Post("/products/eligible", h.HandleEligibleProducts)
}

// EligibilityRequest carries the borrower inputs for an eligibility check.
type EligibilityRequest struct {
	FormData     map[string]any `json:"form_data"`
	LoanPurpose  string         `json:"loan_purpose,omitempty"`
	PropertyType string         `json:"property_type,omitempty"`
}

func (r *EligibilityRequest) Normalize() {
	if r.FormData == nil {
		r.FormData = map[string]any{}
	}
}

func (r *EligibilityRequest) Validate() error {
	return nil
}

// EligibleProductsResponse lists the matching products in catalog order.
type EligibleProductsResponse struct {
	Products []*models.Product `json:"products"`
}

func (h *Handler) HandleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[EligibilityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	check, err := h.service.CheckEligibility(ctx, productID, req.FormData, req.LoanPurpose, req.PropertyType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, check)
}

func (h *Handler) HandleEligibleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EligibilityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	products, err := h.service.EligibleProducts(ctx, req.FormData, req.LoanPurpose, req.PropertyType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EligibleProductsResponse{Products: products})
}
