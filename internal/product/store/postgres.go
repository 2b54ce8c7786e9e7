package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendkit/internal/product/models"
	"lendkit/internal/scope"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
)

// Schema:
//
//	CREATE TABLE products (
//	    id                 UUID PRIMARY KEY,
//	    tenant_id          UUID NOT NULL,
//	    name               TEXT NOT NULL,
//	    enabled            BOOLEAN NOT NULL,
//	    property_types     JSONB NOT NULL,
//	    required_fields    JSONB NOT NULL,
//	    conditional_logic  JSONB NOT NULL,
//	    underwriting_rules JSONB NOT NULL,
//	    created_at         TIMESTAMPTZ NOT NULL,
//	    updated_at         TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX products_tenant_idx ON products (tenant_id);

// Postgres persists products in PostgreSQL. Rule lists live in JSONB columns.
type Postgres struct {
	pool        *pgxpool.Pool
	interceptor *scope.Interceptor
}

func NewPostgres(pool *pgxpool.Pool, interceptor *scope.Interceptor) *Postgres {
	return &Postgres{pool: pool, interceptor: interceptor}
}

func (s *Postgres) Create(ctx context.Context, p *models.Product) error {
	if err := s.interceptor.PrepareCreate(ctx, p); err != nil {
		return err
	}
	cols, err := encodeRuleColumns(p)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO products (id, tenant_id, name, enabled, property_types, required_fields,
			conditional_logic, underwriting_rules, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(p.ID), uuid.UUID(p.TenantID), p.Name, p.Enabled,
		cols.propertyTypes, cols.requiredFields, cols.conditionalLogic, cols.underwritingRules,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	tenantID, err := s.interceptor.ReadFilter(ctx)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, enabled, property_types, required_fields,
			conditional_logic, underwriting_rules, created_at, updated_at
		FROM products WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(productID), uuid.UUID(tenantID),
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Product, error) {
	tenantID, err := s.interceptor.ReadFilter(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, name, enabled, property_types, required_fields,
			conditional_logic, underwriting_rules, created_at, updated_at
		FROM products WHERE tenant_id = $1
		ORDER BY created_at`,
		uuid.UUID(tenantID),
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *Postgres) Update(ctx context.Context, p *models.Product) error {
	if err := s.interceptor.PrepareUpdate(ctx, p); err != nil {
		return err
	}
	cols, err := encodeRuleColumns(p)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET name = $3, enabled = $4, property_types = $5, required_fields = $6,
			conditional_logic = $7, underwriting_rules = $8, updated_at = $9
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(p.ID), uuid.UUID(p.TenantID), p.Name, p.Enabled,
		cols.propertyTypes, cols.requiredFields, cols.conditionalLogic, cols.underwritingRules,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type ruleColumns struct {
	propertyTypes     []byte
	requiredFields    []byte
	conditionalLogic  []byte
	underwritingRules []byte
}

func encodeRuleColumns(p *models.Product) (ruleColumns, error) {
	var cols ruleColumns
	var err error
	if cols.propertyTypes, err = json.Marshal(p.PropertyTypes); err != nil {
		return cols, fmt.Errorf("encode property types: %w", err)
	}
	if cols.requiredFields, err = json.Marshal(p.RequiredFields); err != nil {
		return cols, fmt.Errorf("encode required fields: %w", err)
	}
	if cols.conditionalLogic, err = json.Marshal(p.ConditionalLogic); err != nil {
		return cols, fmt.Errorf("encode conditional logic: %w", err)
	}
	if cols.underwritingRules, err = json.Marshal(p.UnderwritingRules); err != nil {
		return cols, fmt.Errorf("encode underwriting rules: %w", err)
	}
	return cols, nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	var productID, tenantID uuid.UUID
	var propertyTypes, requiredFields, conditionalLogic, underwritingRules []byte
	err := row.Scan(&productID, &tenantID, &p.Name, &p.Enabled,
		&propertyTypes, &requiredFields, &conditionalLogic, &underwritingRules,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(propertyTypes, &p.PropertyTypes); err != nil {
		return nil, fmt.Errorf("decode property types: %w", err)
	}
	if err := json.Unmarshal(requiredFields, &p.RequiredFields); err != nil {
		return nil, fmt.Errorf("decode required fields: %w", err)
	}
	if err := json.Unmarshal(conditionalLogic, &p.ConditionalLogic); err != nil {
		return nil, fmt.Errorf("decode conditional logic: %w", err)
	}
	if err := json.Unmarshal(underwritingRules, &p.UnderwritingRules); err != nil {
		return nil, fmt.Errorf("decode underwriting rules: %w", err)
	}
	p.ID = id.ProductID(productID)
	p.TenantID = id.TenantID(tenantID)
	return &p, nil
}
