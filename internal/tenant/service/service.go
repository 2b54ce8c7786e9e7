package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	tenantmetrics "lendkit/internal/tenant/metrics"
	"lendkit/internal/tenant/models"
	id "lendkit/pkg/domain"
	dErrors "lendkit/pkg/domain-errors"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/requestcontext"
)

// TenantStore is the persistence surface the tenant module needs. Declared
// here so the service owns its dependency contract; memory, postgres, and
// the redis cache decorator all satisfy it.
type TenantStore interface {
	CreateIfSubdomainAvailable(ctx context.Context, t *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	FindByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	Execute(ctx context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error)
}

// Service orchestrates tenant lifecycle management (the onboarding surface
// used by platform administrators).
type Service struct {
	tenants TenantStore
	logger  *slog.Logger
	metrics *tenantmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the tenant service.
func New(tenants TenantStore, opts ...Option) *Service {
	s := &Service{tenants: tenants}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTenant onboards a new tenant organization.
func (s *Service) CreateTenant(ctx context.Context, name, subdomain, domain string) (*models.Tenant, error) {
	t, err := models.NewTenant(id.TenantID(uuid.New()), name, subdomain, domain, requestcontext.Now(ctx))
	if err != nil {
		// Invariant violations on user-supplied input surface as validation.
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.tenants.CreateIfSubdomainAvailable(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "tenant subdomain and domain must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
	}

	s.logAudit(ctx, "tenant_created", "tenant_id", t.ID.String(), "subdomain", t.Subdomain)
	if s.metrics != nil {
		s.metrics.IncrementTenantCreated()
	}
	return t, nil
}

// GetTenant retrieves a tenant by id.
func (s *Service) GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	return t, nil
}

// DeactivateTenant transitions a tenant to inactive status. From that moment
// the tenant stops resolving, which cuts off all of its traffic at the scope
// boundary; its data is left untouched.
func (s *Service) DeactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	now := requestcontext.Now(ctx)
	t, err := s.tenants.Execute(ctx, tenantID,
		func(t *models.Tenant) error {
			if err := t.CanDeactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "tenant is already inactive")
			}
			return nil
		},
		func(t *models.Tenant) {
			t.ApplyDeactivation(now)
		},
	)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	s.logAudit(ctx, "tenant_deactivated", "tenant_id", t.ID.String())
	return t, nil
}

// ReactivateTenant transitions a tenant back to active status.
func (s *Service) ReactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	now := requestcontext.Now(ctx)
	t, err := s.tenants.Execute(ctx, tenantID,
		func(t *models.Tenant) error {
			if err := t.CanReactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "tenant is already active")
			}
			return nil
		},
		func(t *models.Tenant) {
			t.ApplyReactivation(now)
		},
	)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	s.logAudit(ctx, "tenant_reactivated", "tenant_id", t.ID.String())
	return t, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func wrapTenantErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	var de *dErrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "tenant store failure")
}
