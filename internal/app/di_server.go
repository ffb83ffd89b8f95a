package app

import (
	"fmt"

	"github.com/allisson/go-shop-api/internal/auth"
	"github.com/allisson/go-shop-api/internal/eventbus"
	"github.com/allisson/go-shop-api/internal/http"
	"github.com/allisson/go-shop-api/internal/metrics"
	orderHTTP "github.com/allisson/go-shop-api/internal/order/http"
	productHTTP "github.com/allisson/go-shop-api/internal/product/http"
	userHTTP "github.com/allisson/go-shop-api/internal/user/http"
)

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
// Returns nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Subscriber returns the event bus subscriber instance.
func (c *Container) Subscriber() (*eventbus.StanSubscriber, error) {
	var err error
	c.subscriberInit.Do(func() {
		c.subscriber, err = c.initSubscriber()
		if err != nil {
			c.initErrors["subscriber"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriber"]; exists {
		return nil, storedErr
	}
	return c.subscriber, nil
}

// Dispatcher returns the event dispatcher with the default handlers registered.
func (c *Container) Dispatcher() (*eventbus.Dispatcher, error) {
	var err error
	c.dispatcherInit.Do(func() {
		c.dispatcher, err = c.initDispatcher()
		if err != nil {
			c.initErrors["dispatcher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatcher"]; exists {
		return nil, storedErr
	}
	return c.dispatcher, nil
}

// initHTTPServer creates the API HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	store, err := c.CacheStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache store for http server: %w", err)
	}

	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	productUseCase, err := c.ProductUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get product use case for http server: %w", err)
	}

	orderUseCase, err := c.OrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for http server: %w", err)
	}

	tokenService := c.TokenService()

	handlers := http.Handlers{
		User:    userHTTP.NewUserHandler(userUseCase, tokenService, logger),
		Product: productHTTP.NewProductHandler(productUseCase, logger),
		Order:   orderHTTP.NewOrderHandler(orderUseCase, logger),
	}

	middleware := http.MiddlewareConfig{
		GinMode:                 c.config.GetGinMode(),
		Authentication:          auth.AuthenticationMiddleware(tokenService, userUseCase, logger),
		CORSEnabled:             c.config.CORSEnabled,
		CORSAllowOrigins:        c.config.CORSAllowOrigins,
		RateLimitEnabled:        c.config.RateLimitEnabled,
		RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:          c.config.RateLimitBurst,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		middleware.Metrics = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	server := http.NewServer(
		db,
		store,
		c.config.ServerHost,
		c.config.ServerPort,
		logger,
		handlers,
		middleware,
	)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}

// initSubscriber creates the event bus subscriber for the worker.
func (c *Container) initSubscriber() (*eventbus.StanSubscriber, error) {
	return eventbus.NewStanSubscriber(eventbus.SubscriberConfig{
		ClusterID:   c.config.BrokerClusterID,
		ClientID:    c.config.BrokerClientID,
		URL:         c.config.BrokerURL,
		Subject:     c.config.BrokerSubject,
		DurableName: c.config.BrokerDurableName,
		QueueGroup:  c.config.BrokerQueueGroup,
		AckWait:     c.config.BrokerAckWait,
	}, c.Logger()), nil
}

// initDispatcher creates the event dispatcher with the default handlers.
func (c *Container) initDispatcher() (*eventbus.Dispatcher, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for dispatcher: %w", err)
	}

	dispatcher := eventbus.NewDispatcher(c.Logger())
	eventbus.RegisterDefaultHandlers(dispatcher, c.Logger(), businessMetrics)
	return dispatcher, nil
}
