//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lendkit/internal/product/models"
	"lendkit/internal/rules"
	"lendkit/internal/scope"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/requestcontext"
	"lendkit/pkg/testutil/containers"
)

type PostgresProductSuite struct {
	suite.Suite
	pg       *containers.PostgresContainer
	store    *Postgres
	tenantID id.TenantID
	ctx      context.Context
}

func (s *PostgresProductSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.Pool, scope.New(nil))
}

func (s *PostgresProductSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background()))
	s.tenantID = id.TenantID(uuid.New())
	s.ctx = requestcontext.WithTenantID(context.Background(), s.tenantID)
}

func TestPostgresProductSuite(t *testing.T) {
	suite.Run(t, new(PostgresProductSuite))
}

func (s *PostgresProductSuite) newProduct(name string, createdAt time.Time) *models.Product {
	return &models.Product{
		ID:             id.ProductID(uuid.New()),
		Name:           name,
		Enabled:        true,
		PropertyTypes:  []string{"single_family"},
		RequiredFields: []string{"ssn"},
		UnderwritingRules: []models.Rule{
			{
				Name: "Credit floor", Field: "creditScore", Operator: rules.OpGTE, Value: 640.0,
				Message: "Low credit score", Severity: models.SeverityWarning,
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func (s *PostgresProductSuite) TestRoundTrip() {
	p := s.newProduct("FHA", time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Name, found.Name)
	s.Equal(p.PropertyTypes, found.PropertyTypes)
	s.Equal(p.RequiredFields, found.RequiredFields)
	s.Require().Len(found.UnderwritingRules, 1)
	s.Equal(rules.OpGTE, found.UnderwritingRules[0].Operator)
	s.Equal(models.SeverityWarning, found.UnderwritingRules[0].Severity)
}

func (s *PostgresProductSuite) TestListScopedAndOrdered() {
	base := time.Now().UTC()
	s.Require().NoError(s.store.Create(s.ctx, s.newProduct("First", base)))
	s.Require().NoError(s.store.Create(s.ctx, s.newProduct("Second", base.Add(time.Second))))

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	s.Require().NoError(s.store.Create(otherCtx, s.newProduct("Foreign", base)))

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("First", list[0].Name)
	s.Equal("Second", list[1].Name)
}

func (s *PostgresProductSuite) TestCrossTenantInvisible() {
	p := s.newProduct("Mine", time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, p))

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	_, err := s.store.FindByID(otherCtx, p.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresProductSuite) TestUpdate() {
	p := s.newProduct("Before", time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, p))

	p.Enabled = false
	p.UpdatedAt = time.Now().UTC()
	s.Require().NoError(s.store.Update(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.False(found.Enabled)
}
