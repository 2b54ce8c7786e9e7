package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendkit/internal/tenant/models"
	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
)

// Schema (migrations live with the deployment, mirrored here for tests):
//
//	CREATE TABLE tenants (
//	    id         UUID PRIMARY KEY,
//	    name       TEXT NOT NULL,
//	    subdomain  TEXT NOT NULL UNIQUE,
//	    domain     TEXT UNIQUE,
//	    status     TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);

// Postgres persists tenants in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed tenant store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) CreateIfSubdomainAvailable(ctx context.Context, t *models.Tenant) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tenants (id, name, subdomain, domain, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(t.ID), t.Name, strings.ToLower(t.Subdomain), nullable(t.Domain),
		string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return s.findOne(ctx, `WHERE id = $1`, uuid.UUID(tenantID))
}

func (s *Postgres) FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	return s.findOne(ctx, `WHERE subdomain = $1`, strings.ToLower(subdomain))
}

func (s *Postgres) FindByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return s.findOne(ctx, `WHERE domain = $1`, strings.ToLower(domain))
}

// Execute runs validate-then-mutate under SELECT ... FOR UPDATE so status
// transitions are atomic across concurrent requests.
func (s *Postgres) Execute(ctx context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tenant update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT id, name, subdomain, COALESCE(domain, ''), status, created_at, updated_at
		FROM tenants WHERE id = $1 FOR UPDATE`, uuid.UUID(tenantID))
	t, err := scanTenant(row)
	if err != nil {
		return nil, err
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	mutate(t)

	_, err = tx.Exec(ctx, `
		UPDATE tenants SET name = $2, status = $3, updated_at = $4 WHERE id = $1`,
		uuid.UUID(t.ID), t.Name, string(t.Status), t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tenant update: %w", err)
	}
	return t, nil
}

func (s *Postgres) findOne(ctx context.Context, where string, arg any) (*models.Tenant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, subdomain, COALESCE(domain, ''), status, created_at, updated_at
		FROM tenants `+where, arg)
	return scanTenant(row)
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	var tenantID uuid.UUID
	var status string
	err := row.Scan(&tenantID, &t.Name, &t.Subdomain, &t.Domain, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	t.ID = id.TenantID(tenantID)
	t.Status = models.TenantStatus(status)
	return &t, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
