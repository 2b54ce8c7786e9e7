package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lendkit/internal/form/engine"
	formmetrics "lendkit/internal/form/metrics"
	"lendkit/internal/form/models"
	"lendkit/internal/rules"
	id "lendkit/pkg/domain"
	dErrors "lendkit/pkg/domain-errors"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/requestcontext"
)

// TemplateStore is the tenant-scoped persistence surface for form templates.
type TemplateStore interface {
	Create(ctx context.Context, tpl *models.FormTemplate) error
	FindByID(ctx context.Context, templateID id.TemplateID) (*models.FormTemplate, error)
	Update(ctx context.Context, tpl *models.FormTemplate) error
}

// Service loads templates under the active tenant scope and runs the
// visibility engine against them.
type Service struct {
	templates TemplateStore
	logger    *slog.Logger
	metrics   *formmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *formmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the form service.
func New(templates TemplateStore, opts ...Option) *Service {
	s := &Service{templates: templates}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvaluateForm loads the template (already tenant-scoped by the store) and
// projects it through the borrower context.
func (s *Service) EvaluateForm(ctx context.Context, templateID id.TemplateID, ec rules.EvalContext) (*engine.EvaluatedForm, error) {
	start := time.Now()
	tpl, err := s.load(ctx, templateID)
	if err != nil {
		return nil, err
	}

	evaluated := engine.EvaluateForm(tpl, ec)
	if s.metrics != nil {
		s.metrics.ObserveEvaluate(start)
	}
	return &evaluated, nil
}

// ValidateFormData validates submitted data against the template's visible
// required fields. A failed validation is a normal result, not an error.
func (s *Service) ValidateFormData(ctx context.Context, templateID id.TemplateID, formData map[string]any, ec rules.EvalContext) (*engine.ValidationResult, error) {
	tpl, err := s.load(ctx, templateID)
	if err != nil {
		return nil, err
	}

	result := engine.ValidateFormData(tpl, formData, ec)
	if !result.Valid {
		if s.metrics != nil {
			s.metrics.IncrementValidationFailure()
		}
		if s.logger != nil {
			s.logger.InfoContext(ctx, "form validation failed",
				"template_id", templateID.String(),
				"missing_fields", len(result.Errors),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	return &result, nil
}

func (s *Service) load(ctx context.Context, templateID id.TemplateID) (*models.FormTemplate, error) {
	if templateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "template id is required")
	}
	tpl, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "form template not found")
		case errors.Is(err, sentinel.ErrNoTenantScope):
			return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "form template access requires a tenant scope")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form template")
		}
	}
	return tpl, nil
}
