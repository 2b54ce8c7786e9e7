// Package store persists form templates. Templates are tenant-owned: every
// operation passes through the scope interceptor, so reads are filtered and
// writes stamped with the active tenant before they touch the data.
package store

import (
	"context"
	"sync"

	"lendkit/internal/form/models"
	"lendkit/internal/scope"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
)

// InMemory keeps templates in process memory.
type InMemory struct {
	interceptor *scope.Interceptor

	mu        sync.RWMutex
	templates map[id.TemplateID]*models.FormTemplate
}

func NewInMemory(interceptor *scope.Interceptor) *InMemory {
	return &InMemory{
		interceptor: interceptor,
		templates:   make(map[id.TemplateID]*models.FormTemplate),
	}
}

func (s *InMemory) Create(ctx context.Context, tpl *models.FormTemplate) error {
	if err := s.interceptor.PrepareCreate(ctx, tpl); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[tpl.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *tpl
	s.templates[tpl.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, templateID id.TemplateID) (*models.FormTemplate, error) {
	tenantID, err := s.interceptor.ReadFilter(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[templateID]
	if !ok || tpl.TenantID != tenantID {
		// A template under another tenant must look identical to a
		// template that does not exist.
		return nil, sentinel.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (s *InMemory) Update(ctx context.Context, tpl *models.FormTemplate) error {
	if err := s.interceptor.PrepareUpdate(ctx, tpl); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.templates[tpl.ID]
	if !ok || existing.TenantID != tpl.TenantID {
		return sentinel.ErrNotFound
	}
	cp := *tpl
	s.templates[tpl.ID] = &cp
	return nil
}
