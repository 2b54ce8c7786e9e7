package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendkit/internal/form/models"
	"lendkit/internal/scope"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
)

// Schema:
//
//	CREATE TABLE form_templates (
//	    id         UUID PRIMARY KEY,
//	    tenant_id  UUID NOT NULL,
//	    name       TEXT NOT NULL,
//	    sections   JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX form_templates_tenant_idx ON form_templates (tenant_id);

// Postgres persists form templates in PostgreSQL. Sections (including their
// condition trees) live in a JSONB column in the shared condition wire
// format; decoding back into tagged variants happens in the model layer.
type Postgres struct {
	pool        *pgxpool.Pool
	interceptor *scope.Interceptor
}

func NewPostgres(pool *pgxpool.Pool, interceptor *scope.Interceptor) *Postgres {
	return &Postgres{pool: pool, interceptor: interceptor}
}

func (s *Postgres) Create(ctx context.Context, tpl *models.FormTemplate) error {
	if err := s.interceptor.PrepareCreate(ctx, tpl); err != nil {
		return err
	}
	sections, err := json.Marshal(tpl.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO form_templates (id, tenant_id, name, sections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(tpl.ID), uuid.UUID(tpl.TenantID), tpl.Name, sections, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create form template: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, templateID id.TemplateID) (*models.FormTemplate, error) {
	tenantID, err := s.interceptor.ReadFilter(ctx)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, sections, created_at, updated_at
		FROM form_templates WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(templateID), uuid.UUID(tenantID),
	)

	var tpl models.FormTemplate
	var tplID, tplTenantID uuid.UUID
	var sections []byte
	err = row.Scan(&tplID, &tplTenantID, &tpl.Name, &sections, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan form template: %w", err)
	}
	if err := json.Unmarshal(sections, &tpl.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	tpl.ID = id.TemplateID(tplID)
	tpl.TenantID = id.TenantID(tplTenantID)
	return &tpl, nil
}

func (s *Postgres) Update(ctx context.Context, tpl *models.FormTemplate) error {
	if err := s.interceptor.PrepareUpdate(ctx, tpl); err != nil {
		return err
	}
	sections, err := json.Marshal(tpl.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	// The tenant predicate on the UPDATE itself keeps the write scoped even
	// if the row changed hands between load and update.
	tag, err := s.pool.Exec(ctx, `
		UPDATE form_templates SET name = $3, sections = $4, updated_at = $5
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(tpl.ID), uuid.UUID(tpl.TenantID), tpl.Name, sections, tpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update form template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
