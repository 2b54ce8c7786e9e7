package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lendkit/internal/product/models"
	"lendkit/internal/scope"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/requestcontext"
)

type ProductStoreSuite struct {
	suite.Suite
	store    *InMemory
	tenantID id.TenantID
	ctx      context.Context
}

func (s *ProductStoreSuite) SetupTest() {
	s.store = NewInMemory(scope.New(nil))
	s.tenantID = id.TenantID(uuid.New())
	s.ctx = requestcontext.WithTenantID(context.Background(), s.tenantID)
}

func TestProductStoreSuite(t *testing.T) {
	suite.Run(t, new(ProductStoreSuite))
}

func (s *ProductStoreSuite) newProduct(name string, createdAt time.Time) *models.Product {
	return &models.Product{
		ID:        id.ProductID(uuid.New()),
		Name:      name,
		Enabled:   true,
		CreatedAt: createdAt,
	}
}

func (s *ProductStoreSuite) TestCreateAndFind() {
	p := s.newProduct("FHA", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, p))
	s.Equal(s.tenantID, p.TenantID)

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("FHA", found.Name)
}

func (s *ProductStoreSuite) TestListReturnsOwnTenantInOrder() {
	base := time.Now()
	first := s.newProduct("First", base)
	second := s.newProduct("Second", base.Add(time.Second))
	s.Require().NoError(s.store.Create(s.ctx, first))
	s.Require().NoError(s.store.Create(s.ctx, second))

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	foreign := s.newProduct("Foreign", base)
	s.Require().NoError(s.store.Create(otherCtx, foreign))

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("First", list[0].Name)
	s.Equal("Second", list[1].Name)
}

func (s *ProductStoreSuite) TestListWithoutScopeRefused() {
	_, err := s.store.List(context.Background())
	s.Require().ErrorIs(err, sentinel.ErrNoTenantScope)
}

func (s *ProductStoreSuite) TestCrossTenantFindIndistinguishable() {
	p := s.newProduct("Mine", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, p))

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	_, err := s.store.FindByID(otherCtx, p.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ProductStoreSuite) TestUpdate() {
	p := s.newProduct("Before", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, p))

	p.Enabled = false
	s.Require().NoError(s.store.Update(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.False(found.Enabled)
}
