package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/allisson/go-shop-api/internal/app"
	"github.com/allisson/go-shop-api/internal/config"
)

// RunWorker starts the domain event consumer. It joins the durable queue
// group and processes events until receiving SIGINT/SIGTERM. Messages are
// acknowledged only after successful handling, so a failed or interrupted
// message is redelivered.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	subscriber, err := container.Subscriber()
	if err != nil {
		return fmt.Errorf("failed to initialize subscriber: %w", err)
	}

	dispatcher, err := container.Dispatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize dispatcher: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := subscriber.Subscribe(ctx, dispatcher); err != nil {
		return fmt.Errorf("worker error: %w", err)
	}

	logger.Info("worker stopped")
	return nil
}
