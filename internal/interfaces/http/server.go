// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/config"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/lapis-malang/storefront/internal/domain/checkout"
	"github.com/lapis-malang/storefront/internal/domain/session"
	"github.com/lapis-malang/storefront/internal/interfaces/http/handlers"
	"github.com/lapis-malang/storefront/internal/interfaces/http/middleware"
	"github.com/lapis-malang/storefront/internal/interfaces/http/routes"
	"github.com/lapis-malang/storefront/internal/interfaces/http/views"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/lapis-malang/storefront/internal/pkg/token"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// HealthChecker is a dependency whose reachability gates /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Options holds the services the server is wired with
type Options struct {
	Catalog  *catalog.Service
	Sessions *session.Registry
	Checkout *checkout.Service
	Tokens   *token.SessionManager
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger

	// Optional
	RedisClient *redis.Client
	Checks      map[string]HealthChecker
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	opts       Options
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with middleware and routes
// configured
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    cfg,
		opts:      opts,
		gin:       gin.New(),
		startedAt: time.Now(),
	}

	tmpl, err := views.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.gin.SetHTMLTemplate(tmpl)

	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	// Ends open event streams so Shutdown does not wait on them
	s.httpServer.RegisterOnShutdown(opts.Sessions.Close)

	return s, nil
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.opts.Logger.WithFields(logrus.Fields{
		"port":    s.config.Server.Port,
		"api":     fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
		"health":  fmt.Sprintf("http://localhost:%s/health", s.config.Server.Port),
		"version": s.config.App.Version,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.opts.Logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.opts.Logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.opts.Logger))

	// Request metrics
	s.gin.Use(middleware.Metrics(s.opts.Metrics))

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders(s.config))

	// Rate limiting middleware
	if s.config.Security.RateLimitEnabled && s.opts.RedisClient != nil {
		s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.opts.RedisClient, s.opts.Logger))
	}

	// Request size limit middleware
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Operational endpoints carry no session
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	s.gin.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))

	sessionMiddleware := middleware.Session(s.config, s.opts.Sessions, s.opts.Tokens, s.opts.Logger)

	pages := s.gin.Group("")
	pages.Use(sessionMiddleware)

	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(middleware.CORS(s.config), sessionMiddleware)

	deps := &routes.Dependencies{
		Config:   s.config,
		Catalog:  s.opts.Catalog,
		Checkout: s.opts.Checkout,
		Metrics:  s.opts.Metrics,
		Logger:   s.opts.Logger,
	}
	routes.SetupRoutes(pages, apiV1, deps)

	notFound := handlers.NewPageHandler(s.opts.Catalog).NotFound
	s.gin.NoRoute(sessionMiddleware, notFound)
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for name, check := range s.opts.Checks {
		if err := check.Health(ctx); err != nil {
			s.opts.Logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  fmt.Sprintf("%s unavailable", name),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ready",
		"timestamp":       time.Now().UTC(),
		"uptime":          time.Since(s.startedAt).String(),
		"catalog_items":   s.opts.Catalog.Count(),
		"active_sessions": s.opts.Sessions.Len(),
	})
}
