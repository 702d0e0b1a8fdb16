// cmd/storefront/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lapis-malang/storefront/internal/config"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/lapis-malang/storefront/internal/domain/checkout"
	"github.com/lapis-malang/storefront/internal/domain/session"
	"github.com/lapis-malang/storefront/internal/infrastructure/database/postgres"
	"github.com/lapis-malang/storefront/internal/infrastructure/database/redis"
	"github.com/lapis-malang/storefront/internal/interfaces/http"
	"github.com/lapis-malang/storefront/internal/pkg/logger"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/lapis-malang/storefront/internal/pkg/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := http.Options{
		Tokens:  token.NewSessionManager(cfg),
		Metrics: m,
		Logger:  log,
		Checks:  make(map[string]http.HealthChecker),
	}

	// Catalog source
	var loader catalog.Loader = catalog.StaticLoader{}
	if cfg.UsesPostgresCatalog() {
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Health(ctx); err != nil {
			log.Fatalf("Database health check failed: %v", err)
		}

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}
		if cfg.Catalog.Seed {
			if err := migration.SeedCatalog(); err != nil {
				log.WithError(err).Warn("Catalog seeding failed")
			}
		}

		loader = postgres.NewCatalogRepository(db.GetDB())
		opts.Checks["database"] = db
	}

	opts.Catalog, err = catalog.NewService(ctx, loader, log)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Redis backs the rate limiter only
	if cfg.Security.RateLimitEnabled {
		redisClient, err := redis.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		opts.RedisClient = redisClient.GetClient()
		opts.Checks["redis"] = redisClient
	}

	opts.Sessions = session.NewRegistry(cfg.Session.IdleTTL, log, m)
	opts.Checkout = checkout.NewService(cfg.Checkout.SuccessDelay, log, m)
	go opts.Sessions.Run(ctx, cfg.Session.JanitorInterval)

	server, err := http.NewServer(cfg, opts)
	if err != nil {
		log.Fatalf("Failed to create HTTP server: %v", err)
	}

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	log.Info("All systems operational")

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	log.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	opts.Checkout.Stop()
	opts.Sessions.Close()

	log.Info("Server shutdown completed")
}
