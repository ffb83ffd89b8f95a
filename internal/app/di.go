// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/go-shop-api/internal/auth"
	"github.com/allisson/go-shop-api/internal/cache"
	"github.com/allisson/go-shop-api/internal/config"
	"github.com/allisson/go-shop-api/internal/consistency"
	"github.com/allisson/go-shop-api/internal/database"
	"github.com/allisson/go-shop-api/internal/eventbus"
	"github.com/allisson/go-shop-api/internal/http"
	"github.com/allisson/go-shop-api/internal/metrics"
	orderUsecase "github.com/allisson/go-shop-api/internal/order/usecase"
	outboxRepository "github.com/allisson/go-shop-api/internal/outbox/repository"
	outboxUsecase "github.com/allisson/go-shop-api/internal/outbox/usecase"
	productUsecase "github.com/allisson/go-shop-api/internal/product/usecase"
	userUsecase "github.com/allisson/go-shop-api/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	cacheStore      cache.Store
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	publisher       eventbus.Publisher

	// Managers
	txManager   database.TxManager
	coordinator *consistency.Coordinator

	// Auth
	tokenService *auth.TokenService

	// Repositories
	userRepo    userUsecase.UserRepository
	productRepo productUsecase.ProductRepository
	orderRepo   orderUsecase.OrderRepository
	outboxRepo  outboxUsecase.OutboxEventRepository

	// Use Cases
	userUseCase    userUsecase.UseCase
	productUseCase productUsecase.UseCase
	orderUseCase   orderUsecase.UseCase
	outboxUseCase  outboxUsecase.UseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	subscriber    *eventbus.StanSubscriber
	dispatcher    *eventbus.Dispatcher

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	cacheStoreInit      sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	publisherInit       sync.Once
	txManagerInit       sync.Once
	coordinatorInit     sync.Once
	tokenServiceInit    sync.Once
	userRepoInit        sync.Once
	productRepoInit     sync.Once
	orderRepoInit       sync.Once
	outboxRepoInit      sync.Once
	userUseCaseInit     sync.Once
	productUseCaseInit  sync.Once
	orderUseCaseInit    sync.Once
	outboxUseCaseInit   sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	subscriberInit      sync.Once
	dispatcherInit      sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// CacheStore returns the cache store selected by the CACHE_DRIVER setting.
func (c *Container) CacheStore() (cache.Store, error) {
	var err error
	c.cacheStoreInit.Do(func() {
		c.cacheStore, err = c.initCacheStore()
		if err != nil {
			c.initErrors["cacheStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cacheStore"]; exists {
		return nil, storedErr
	}
	return c.cacheStore, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// A no-op recorder is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Publisher returns the event bus publisher instance.
func (c *Container) Publisher() (eventbus.Publisher, error) {
	var err error
	c.publisherInit.Do(func() {
		c.publisher, err = c.initPublisher()
		if err != nil {
			c.initErrors["publisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["publisher"]; exists {
		return nil, storedErr
	}
	return c.publisher, nil
}

// Coordinator returns the consistency coordinator instance.
func (c *Container) Coordinator() (*consistency.Coordinator, error) {
	var err error
	c.coordinatorInit.Do(func() {
		c.coordinator, err = c.initCoordinator()
		if err != nil {
			c.initErrors["coordinator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["coordinator"]; exists {
		return nil, storedErr
	}
	return c.coordinator, nil
}

// OutboxRepository returns the outbox event repository instance.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	var err error
	c.outboxRepoInit.Do(func() {
		c.outboxRepo, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// OutboxUseCase returns the outbox relay use case instance.
func (c *Container) OutboxUseCase() (outboxUsecase.UseCase, error) {
	var err error
	c.outboxUseCaseInit.Do(func() {
		c.outboxUseCase, err = c.initOutboxUseCase()
		if err != nil {
			c.initErrors["outboxUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxUseCase"]; exists {
		return nil, storedErr
	}
	return c.outboxUseCase, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Close broker connection if initialized
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("publisher close: %w", err))
		}
	}

	// Close cache connection if initialized
	if c.cacheStore != nil {
		if err := c.cacheStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("cache close: %w", err))
		}
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initCacheStore creates the cache store based on the configured driver.
func (c *Container) initCacheStore() (cache.Store, error) {
	switch c.config.CacheDriver {
	case "redis":
		store, err := cache.NewRedisStore(c.config.CacheURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache store: %w", err)
		}
		return store, nil
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", c.config.CacheDriver)
	}
}

// initMetricsProvider creates the metrics provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initPublisher creates the event bus publisher.
func (c *Container) initPublisher() (eventbus.Publisher, error) {
	return eventbus.NewStanPublisher(eventbus.PublisherConfig{
		ClusterID: c.config.BrokerClusterID,
		ClientID:  c.config.BrokerClientID,
		URL:       c.config.BrokerURL,
		Subject:   c.config.BrokerSubject,
	}), nil
}

// initCoordinator creates the consistency coordinator with its dependencies.
func (c *Container) initCoordinator() (*consistency.Coordinator, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for coordinator: %w", err)
	}

	store, err := c.CacheStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache store for coordinator: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for coordinator: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for coordinator: %w", err)
	}

	recorder := outboxUsecase.NewRecorder(outboxRepo)

	return consistency.NewCoordinator(
		txManager,
		store,
		recorder,
		c.config.CacheTTL,
		c.Logger(),
		businessMetrics,
	), nil
}

// initOutboxRepository creates the outbox event repository instance.
func (c *Container) initOutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}
	return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
}

// initOutboxUseCase creates the outbox relay use case with all its dependencies.
func (c *Container) initOutboxUseCase() (outboxUsecase.UseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}

	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for outbox use case: %w", err)
	}

	useCaseConfig := outboxUsecase.Config{
		Interval:   c.config.OutboxInterval,
		BatchSize:  c.config.OutboxBatchSize,
		MaxRetries: c.config.OutboxMaxRetries,
	}

	eventProcessor := outboxUsecase.NewPublishEventProcessor(publisher, logger)
	useCase := outboxUsecase.NewOutboxUseCase(useCaseConfig, txManager, outboxRepo, eventProcessor, logger)

	return useCase, nil
}
