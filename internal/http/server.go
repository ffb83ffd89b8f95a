// Package http provides the API HTTP server, router setup, and middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/go-shop-api/internal/cache"
	orderHTTP "github.com/allisson/go-shop-api/internal/order/http"
	productHTTP "github.com/allisson/go-shop-api/internal/product/http"
	userHTTP "github.com/allisson/go-shop-api/internal/user/http"
)

// Handlers groups the domain handlers mounted on the router. A nil handler
// leaves its routes unregistered, which keeps router construction usable in
// tests that only need a subset.
type Handlers struct {
	User    *userHTTP.UserHandler
	Product *productHTTP.ProductHandler
	Order   *orderHTTP.OrderHandler
}

// MiddlewareConfig controls the middleware applied to the router.
type MiddlewareConfig struct {
	// GinMode sets the Gin mode ("debug", "release", "test"). Empty keeps
	// the current mode.
	GinMode string

	// Authentication guards product writes and all order routes. Required
	// when the corresponding handlers are set.
	Authentication gin.HandlerFunc

	// Metrics records request metrics when set.
	Metrics gin.HandlerFunc

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
}

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	store  cache.Store
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the API server and builds its router. db and store are
// used by the readiness endpoint and may be nil in tests.
func NewServer(
	db *sql.DB,
	store cache.Store,
	host string,
	port int,
	logger *slog.Logger,
	handlers Handlers,
	middleware MiddlewareConfig,
) *Server {
	s := &Server{
		db:     db,
		store:  store,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.router = s.setupRouter(handlers, middleware)
	s.server.Handler = s.router

	return s
}

// setupRouter builds the Gin engine with middleware and the route table.
func (s *Server) setupRouter(handlers Handlers, middleware MiddlewareConfig) *gin.Engine {
	if middleware.GinMode != "" {
		gin.SetMode(middleware.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if middleware.Metrics != nil {
		router.Use(middleware.Metrics)
	}

	if corsMiddleware := createCORSMiddleware(
		middleware.CORSEnabled,
		middleware.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if middleware.RateLimitEnabled {
		router.Use(RateLimitMiddleware(
			middleware.RateLimitRequestsPerSec,
			middleware.RateLimitBurst,
			s.logger,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")

	if handlers.User != nil {
		api.POST("/register", handlers.User.RegisterHandler)
		api.POST("/login", handlers.User.LoginHandler)
	}

	if handlers.Product != nil {
		products := api.Group("/products")
		products.GET("", handlers.Product.ListHandler)
		products.GET("/:id", handlers.Product.GetHandler)

		protected := products.Group("")
		if middleware.Authentication != nil {
			protected.Use(middleware.Authentication)
		}
		protected.POST("", handlers.Product.CreateHandler)
		protected.PATCH("/:id", handlers.Product.UpdateHandler)
		protected.DELETE("/:id", handlers.Product.DeleteHandler)
	}

	if handlers.Order != nil {
		orders := api.Group("/orders")
		if middleware.Authentication != nil {
			orders.Use(middleware.Authentication)
		}
		orders.GET("", handlers.Order.ListHandler)
		orders.GET("/:id", handlers.Order.GetHandler)
		orders.POST("", handlers.Order.CreateHandler)
		orders.PATCH("/:id", handlers.Order.UpdateStatusHandler)
		orders.DELETE("/:id", handlers.Order.DeleteHandler)
	}

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can take traffic. The database
// is required; the cache is reported but never fails readiness since reads
// fall back to the database on cache outages.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			components["cache"] = "degraded"
		} else {
			components["cache"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
