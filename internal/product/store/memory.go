// Package store persists loan products. Products are tenant-owned: every
// operation passes through the scope interceptor.
package store

import (
	"context"
	"sort"
	"sync"

	"lendkit/internal/product/models"
	"lendkit/internal/scope"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
)

// InMemory keeps products in process memory.
type InMemory struct {
	interceptor *scope.Interceptor

	mu       sync.RWMutex
	products map[id.ProductID]*models.Product
	// order preserves insertion order for List, matching how a SQL store
	// would sort by creation time.
	order []id.ProductID
}

func NewInMemory(interceptor *scope.Interceptor) *InMemory {
	return &InMemory{
		interceptor: interceptor,
		products:    make(map[id.ProductID]*models.Product),
	}
}

func (s *InMemory) Create(ctx context.Context, p *models.Product) error {
	if err := s.interceptor.PrepareCreate(ctx, p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *p
	s.products[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	tenantID, err := s.interceptor.ReadFilter(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok || p.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// List returns the active scope's products in creation order.
func (s *InMemory) List(ctx context.Context) ([]*models.Product, error) {
	tenantID, err := s.interceptor.ReadFilter(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Product, 0, len(s.order))
	for _, productID := range s.order {
		p := s.products[productID]
		if p == nil || p.TenantID != tenantID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Update(ctx context.Context, p *models.Product) error {
	if err := s.interceptor.PrepareUpdate(ctx, p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[p.ID]
	if !ok || existing.TenantID != p.TenantID {
		return sentinel.ErrNotFound
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}
