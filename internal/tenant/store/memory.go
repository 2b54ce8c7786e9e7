// Package store provides tenant persistence. The Tenant entity is
// tenant-global: these stores are queried before any scope exists and are
// the one place unscoped lookups are legitimate.
package store

import (
	"context"
	"strings"
	"sync"

	"lendkit/internal/tenant/models"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
)

// InMemory keeps tenants in process memory. Favoring clarity over
// performance, it is the default store for development and unit tests.
type InMemory struct {
	mu          sync.RWMutex
	byID        map[id.TenantID]*models.Tenant
	bySubdomain map[string]id.TenantID
	byDomain    map[string]id.TenantID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:        make(map[id.TenantID]*models.Tenant),
		bySubdomain: make(map[string]id.TenantID),
		byDomain:    make(map[string]id.TenantID),
	}
}

// CreateIfSubdomainAvailable inserts the tenant unless its subdomain or
// custom domain is already claimed.
func (s *InMemory) CreateIfSubdomainAvailable(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := strings.ToLower(t.Subdomain)
	if _, taken := s.bySubdomain[sub]; taken {
		return sentinel.ErrConflict
	}
	if t.Domain != "" {
		if _, taken := s.byDomain[strings.ToLower(t.Domain)]; taken {
			return sentinel.ErrConflict
		}
	}

	cp := *t
	s.byID[t.ID] = &cp
	s.bySubdomain[sub] = t.ID
	if t.Domain != "" {
		s.byDomain[strings.ToLower(t.Domain)] = t.ID
	}
	return nil
}

func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(tenantID)
}

func (s *InMemory) FindBySubdomain(_ context.Context, subdomain string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenantID, ok := s.bySubdomain[strings.ToLower(subdomain)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.lookup(tenantID)
}

func (s *InMemory) FindByDomain(_ context.Context, domain string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenantID, ok := s.byDomain[strings.ToLower(domain)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.lookup(tenantID)
}

// Execute runs an atomic validate-then-mutate against a tenant, holding the
// store lock for the duration of both callbacks.
func (s *InMemory) Execute(_ context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	mutate(t)
	cp := *t
	return &cp, nil
}

// lookup must be called with at least a read lock held.
func (s *InMemory) lookup(tenantID id.TenantID) (*models.Tenant, error) {
	t, ok := s.byID[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}
