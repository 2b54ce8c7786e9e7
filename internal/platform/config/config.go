package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration, built from environment
// variables so main stays lean.
type Config struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string

	// PostgresURL is optional; when empty the server runs on in-memory
	// stores, which keeps local development and tests dependency-free.
	PostgresURL string

	Redis RedisConfig

	// ReservedSubdomains never resolve to a tenant.
	ReservedSubdomains []string

	// TenantCacheTTL bounds staleness of the redis tenant-lookup cache.
	TenantCacheTTL time.Duration
}

// RedisConfig tunes the optional redis client. An empty URL disables redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("LENDKIT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	reserved := []string{"www", "api"}
	if env := os.Getenv("LENDKIT_RESERVED_SUBDOMAINS"); env != "" {
		reserved = splitCSV(env)
	}

	return Config{
		Addr:               addr,
		AdminToken:         os.Getenv("LENDKIT_ADMIN_TOKEN"),
		JWTSigningKey:      jwtSigningKey,
		PostgresURL:        os.Getenv("LENDKIT_POSTGRES_URL"),
		Redis:              redisFromEnv(),
		ReservedSubdomains: reserved,
		TenantCacheTTL:     durationEnv("LENDKIT_TENANT_CACHE_TTL", 5*time.Minute),
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("LENDKIT_REDIS_URL"),
		PoolSize:     intEnv("LENDKIT_REDIS_POOL_SIZE", 10),
		MinIdleConns: intEnv("LENDKIT_REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  durationEnv("LENDKIT_REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  durationEnv("LENDKIT_REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: durationEnv("LENDKIT_REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
