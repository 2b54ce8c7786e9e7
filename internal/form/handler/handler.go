package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lendkit/internal/form/service"
	"lendkit/internal/rules"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/httputil"
	"lendkit/pkg/requestcontext"
)

// Handler wires the borrower-facing form evaluation endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs a form handler.
func New(s *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// Register mounts form routes. The caller wraps the group with the tenant
// scope guard.
func (h *Handler) Register(r chi.Router) {
	r.Post("/forms/{templateID}/evaluate", h.HandleEvaluate)
	r.Post("/forms/{templateID}/validate", h.HandleValidate)
}

// BorrowerContext is the wire form of the per-evaluation borrower inputs.
type BorrowerContext struct {
	SelectedProduct string         `json:"selected_product,omitempty"`
	LoanPurpose     string         `json:"loan_purpose,omitempty"`
	PropertyType    string         `json:"property_type,omitempty"`
	FormData        map[string]any `json:"form_data,omitempty"`
}

func (c BorrowerContext) toEvalContext() rules.EvalContext {
	return rules.EvalContext{
		SelectedProduct: c.SelectedProduct,
		LoanPurpose:     c.LoanPurpose,
		PropertyType:    c.PropertyType,
		FormData:        c.FormData,
	}
}

// EvaluateFormRequest asks for the visible projection of a template.
type EvaluateFormRequest struct {
	Context BorrowerContext `json:"context"`
}

func (r *EvaluateFormRequest) Normalize() {}
func (r *EvaluateFormRequest) Validate() error {
	return nil
}

// ValidateFormRequest submits form data for validation.
type ValidateFormRequest struct {
	Context  BorrowerContext `json:"context"`
	FormData map[string]any  `json:"form_data"`
}

func (r *ValidateFormRequest) Normalize() {
	if r.FormData == nil {
		r.FormData = map[string]any{}
	}
}

func (r *ValidateFormRequest) Validate() error {
	return nil
}

func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templateID, err := id.ParseTemplateID(chi.URLParam(r, "templateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[EvaluateFormRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	evaluated, err := h.service.EvaluateForm(ctx, templateID, req.Context.toEvalContext())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, evaluated)
}

func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templateID, err := id.ParseTemplateID(chi.URLParam(r, "templateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ValidateFormRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	result, err := h.service.ValidateFormData(ctx, templateID, req.FormData, req.Context.toEvalContext())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
