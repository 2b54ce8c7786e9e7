package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	formhandler "lendkit/internal/form/handler"
	formmetrics "lendkit/internal/form/metrics"
	formservice "lendkit/internal/form/service"
	formstore "lendkit/internal/form/store"
	"lendkit/internal/platform/config"
	"lendkit/internal/platform/httpserver"
	"lendkit/internal/platform/logger"
	platformredis "lendkit/internal/platform/redis"
	producthandler "lendkit/internal/product/handler"
	productmetrics "lendkit/internal/product/metrics"
	productservice "lendkit/internal/product/service"
	productstore "lendkit/internal/product/store"
	"lendkit/internal/scope"
	"lendkit/internal/tenant/cache"
	tenanthandler "lendkit/internal/tenant/handler"
	tenantmetrics "lendkit/internal/tenant/metrics"
	tenantservice "lendkit/internal/tenant/service"
	tenantstore "lendkit/internal/tenant/store"
	httptransport "lendkit/internal/transport/http"
)

// main composes the process explicitly: config, logger, optional backing
// stores, then services, handlers, and the router. All dependency decisions
// are visible here; nothing is registered through side effects.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	interceptor := scope.New(log)

	var pool *pgxpool.Pool
	if cfg.PostgresURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres pool init failed", "error", err)
			os.Exit(1)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var tenants tenantservice.TenantStore
	var templates formservice.TemplateStore
	var products productservice.ProductStore
	if pool != nil {
		tenants = tenantstore.NewPostgres(pool)
		templates = formstore.NewPostgres(pool, interceptor)
		products = productstore.NewPostgres(pool, interceptor)
	} else {
		log.Info("no postgres configured, using in-memory stores")
		tenants = tenantstore.NewInMemory()
		templates = formstore.NewInMemory(interceptor)
		products = productstore.NewInMemory(interceptor)
	}
	if redisClient != nil {
		tenants = cache.New(tenants, redisClient.Client, cfg.TenantCacheTTL, log)
	}

	tMetrics := tenantmetrics.New()
	tenantSvc := tenantservice.New(tenants,
		tenantservice.WithLogger(log),
		tenantservice.WithMetrics(tMetrics),
	)
	resolver := tenantservice.NewResolver(tenants, cfg.ReservedSubdomains, log, tMetrics)

	formSvc := formservice.New(templates,
		formservice.WithLogger(log),
		formservice.WithMetrics(formmetrics.New()),
	)
	productSvc := productservice.New(products,
		productservice.WithLogger(log),
		productservice.WithMetrics(productmetrics.New()),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Resolver:       resolver,
		TenantHandler:  tenanthandler.New(tenantSvc, log),
		FormHandler:    formhandler.New(formSvc, log),
		ProductHandler: producthandler.New(productSvc, log),
		JWTSigningKey:  []byte(cfg.JWTSigningKey),
		AdminToken:     cfg.AdminToken,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
