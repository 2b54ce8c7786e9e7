//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lendkit/internal/tenant/models"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/testutil/containers"
)

type PostgresTenantSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
}

func (s *PostgresTenantSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.Pool)
	s.ctx = context.Background()
}

func (s *PostgresTenantSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx))
}

func TestPostgresTenantSuite(t *testing.T) {
	suite.Run(t, new(PostgresTenantSuite))
}

func (s *PostgresTenantSuite) newTenant(name, subdomain, domain string) *models.Tenant {
	t, err := models.NewTenant(id.TenantID(uuid.New()), name, subdomain, domain, time.Now().UTC())
	s.Require().NoError(err)
	return t
}

func (s *PostgresTenantSuite) TestCreateAndLookups() {
	tenant := s.newTenant("Acme", "acme", "loans.acme.com")
	s.Require().NoError(s.store.CreateIfSubdomainAvailable(s.ctx, tenant))

	byID, err := s.store.FindByID(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Equal("Acme", byID.Name)

	bySub, err := s.store.FindBySubdomain(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal(tenant.ID, bySub.ID)

	byDomain, err := s.store.FindByDomain(s.ctx, "loans.acme.com")
	s.Require().NoError(err)
	s.Equal(tenant.ID, byDomain.ID)
}

func (s *PostgresTenantSuite) TestNullDomain() {
	tenant := s.newTenant("Beta", "beta", "")
	s.Require().NoError(s.store.CreateIfSubdomainAvailable(s.ctx, tenant))

	found, err := s.store.FindByID(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Empty(found.Domain)

	// A second tenant without a domain must not trip the unique index.
	s.Require().NoError(s.store.CreateIfSubdomainAvailable(s.ctx, s.newTenant("Gamma", "gamma", "")))
}

func (s *PostgresTenantSuite) TestSubdomainConflict() {
	s.Require().NoError(s.store.CreateIfSubdomainAvailable(s.ctx, s.newTenant("First", "shared", "")))

	err := s.store.CreateIfSubdomainAvailable(s.ctx, s.newTenant("Second", "shared", ""))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresTenantSuite) TestExecuteLifecycle() {
	tenant := s.newTenant("Lifecycle", "lifecycle", "")
	s.Require().NoError(s.store.CreateIfSubdomainAvailable(s.ctx, tenant))

	updated, err := s.store.Execute(s.ctx, tenant.ID,
		func(t *models.Tenant) error { return t.CanDeactivate() },
		func(t *models.Tenant) { t.ApplyDeactivation(time.Now().UTC()) },
	)
	s.Require().NoError(err)
	s.Equal(models.TenantStatusInactive, updated.Status)

	found, err := s.store.FindByID(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Equal(models.TenantStatusInactive, found.Status)

	_, err = s.store.Execute(s.ctx, tenant.ID,
		func(t *models.Tenant) error { return t.CanDeactivate() },
		func(t *models.Tenant) { t.ApplyDeactivation(time.Now().UTC()) },
	)
	s.Require().Error(err)
}

func (s *PostgresTenantSuite) TestNotFound() {
	_, err := s.store.FindByID(s.ctx, id.TenantID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
