// Package cache provides a redis read-through layer over tenant lookups.
// Tenant resolution runs on every request, so subdomain and custom-domain
// lookups are the hottest read path in the system. The evaluation core never
// caches its own results; this layer only caches the tenant registry.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"lendkit/internal/tenant/models"
	id "lendkit/pkg/domain"
)

// Store is the tenant store surface this cache decorates.
type Store interface {
	CreateIfSubdomainAvailable(ctx context.Context, t *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	FindByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	Execute(ctx context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error)
}

// TenantCache decorates a Store with cached subdomain/domain lookups.
// Redis failures degrade to the underlying store; the cache is an
// optimization, never a source of truth. Negative results are not cached so
// a freshly onboarded tenant resolves immediately.
type TenantCache struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(next Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *TenantCache {
	return &TenantCache{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *TenantCache) CreateIfSubdomainAvailable(ctx context.Context, t *models.Tenant) error {
	return c.next.CreateIfSubdomainAvailable(ctx, t)
}

func (c *TenantCache) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return c.next.FindByID(ctx, tenantID)
}

func (c *TenantCache) FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	return c.lookup(ctx, "tenant:sub:"+subdomain, func() (*models.Tenant, error) {
		return c.next.FindBySubdomain(ctx, subdomain)
	})
}

func (c *TenantCache) FindByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return c.lookup(ctx, "tenant:dom:"+domain, func() (*models.Tenant, error) {
		return c.next.FindByDomain(ctx, domain)
	})
}

// Execute delegates and invalidates the tenant's lookup keys, so a
// deactivated tenant stops resolving within one round trip rather than one
// TTL.
func (c *TenantCache) Execute(ctx context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error) {
	t, err := c.next.Execute(ctx, tenantID, validate, mutate)
	if err != nil {
		return nil, err
	}
	keys := []string{"tenant:sub:" + t.Subdomain}
	if t.Domain != "" {
		keys = append(keys, "tenant:dom:"+t.Domain)
	}
	if delErr := c.client.Del(ctx, keys...).Err(); delErr != nil {
		c.warn(ctx, "failed to invalidate tenant cache", delErr)
	}
	return t, nil
}

func (c *TenantCache) lookup(ctx context.Context, key string, load func() (*models.Tenant, error)) (*models.Tenant, error) {
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var t models.Tenant
		if unmarshalErr := json.Unmarshal(cached, &t); unmarshalErr == nil {
			return &t, nil
		}
		// Corrupt entry; fall through to the store and overwrite.
	} else if err != redis.Nil {
		c.warn(ctx, "tenant cache read failed", err)
	}

	t, err := load()
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(t); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.warn(ctx, "tenant cache write failed", setErr)
		}
	}
	return t, nil
}

func (c *TenantCache) warn(ctx context.Context, msg string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "error", err)
	}
}
