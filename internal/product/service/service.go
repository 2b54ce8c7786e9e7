// Package service exposes tenant-scoped product operations: single-product
// eligibility checks and matching a borrower against the tenant's whole
// catalog.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"lendkit/internal/product/engine"
	productmetrics "lendkit/internal/product/metrics"
	"lendkit/internal/product/models"
	id "lendkit/pkg/domain"
	dErrors "lendkit/pkg/domain-errors"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/requestcontext"
)

// ProductStore is the tenant-scoped persistence surface for products.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
}

// Service runs the eligibility engine against stored products.
type Service struct {
	products ProductStore
	logger   *slog.Logger
	metrics  *productmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *productmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the product service.
func New(products ProductStore, opts ...Option) *Service {
	s := &Service{products: products}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckEligibility evaluates the borrower against one product.
func (s *Service) CheckEligibility(ctx context.Context, productID id.ProductID, formData map[string]any, loanPurpose, propertyType string) (*models.EligibilityCheck, error) {
	start := time.Now()
	p, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	check := engine.CheckEligibility(p, formData, loanPurpose, propertyType)
	if s.metrics != nil {
		s.metrics.ObserveCheck(check.Eligible, start)
	}
	if !check.Eligible && s.logger != nil {
		s.logger.InfoContext(ctx, "product ineligible",
			"product_id", productID.String(),
			"reasons", len(check.Reasons),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return &check, nil
}

// EligibleProducts evaluates the borrower against every product in the
// active tenant's catalog and returns the eligible ones in catalog order.
// Checks run concurrently; the engine is pure, so each goroutine touches
// only its own slot.
func (s *Service) EligibleProducts(ctx context.Context, formData map[string]any, loanPurpose, propertyType string) ([]*models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, s.translate(err, "failed to list products")
	}

	checks := make([]models.EligibilityCheck, len(products))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, p := range products {
		g.Go(func() error {
			checks[i] = engine.CheckEligibility(p, formData, loanPurpose, propertyType)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "eligibility evaluation failed")
	}

	eligible := make([]*models.Product, 0, len(products))
	for i, p := range products {
		if s.metrics != nil {
			s.metrics.CountCheck(checks[i].Eligible)
		}
		if checks[i].Eligible {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

func (s *Service) load(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	if productID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "product id is required")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, s.translate(err, "failed to load product")
	}
	return p, nil
}

func (s *Service) translate(err error, internalMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "product not found")
	case errors.Is(err, sentinel.ErrNoTenantScope):
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "product access requires a tenant scope")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}
