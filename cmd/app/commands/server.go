package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/go-shop-api/internal/app"
	"github.com/allisson/go-shop-api/internal/config"
)

const shutdownTimeout = 30 * time.Second

// RunServer starts the API server, the metrics server, and the outbox relay.
// Blocks until receiving SIGINT/SIGTERM or until one of the components fails,
// then shuts the rest down gracefully.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	// Get HTTP server from container (this initializes all dependencies)
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	outboxUseCase, err := container.OutboxUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox relay: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gCtx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gCtx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	// The relay returns the context error on cancellation, which is a clean
	// exit here.
	g.Go(func() error {
		if err := outboxUseCase.Start(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox relay error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("server stopped")
	return nil
}
