// Package usecase implements the outbox relay that drains pending events
// to the event queue with retry accounting.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/allisson/go-shop-api/internal/database"
	"github.com/allisson/go-shop-api/internal/eventbus"
	"github.com/allisson/go-shop-api/internal/outbox/domain"
)

// Config holds outbox relay configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor defines the interface for delivering a single outbox event
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the interface for outbox use cases
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// OutboxUseCase drains pending events in batches. Each batch runs in a
// transaction that locks the selected rows, so concurrent relay instances
// never publish the same event twice within a batch; duplicates across
// crashes are still possible and consumers must tolerate them.
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	logger         *slog.Logger
}

// NewOutboxUseCase creates a new OutboxUseCase
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		logger:         logger,
	}
}

// Start runs the relay loop until ctx is cancelled.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting outbox relay",
			slog.Duration("interval", uc.config.Interval),
			slog.Int("batch_size", uc.config.BatchSize),
		)
	}

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping outbox relay")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to process events", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessEvents publishes one batch of pending events inside a transaction.
// A delivery failure increments the event's retry count and records the
// error; the event stays pending until MaxRetries, then moves to failed.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		if uc.logger != nil {
			uc.logger.Info("processing events", slog.Int("count", len(events)))
		}

		for _, event := range events {
			if err := uc.processEvent(ctx, event); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to publish event",
						slog.String("event_id", event.ID.String()),
						slog.String("event_type", event.EventType),
						slog.Any("error", err),
					)
				}

				event.Retries++
				errorMsg := err.Error()
				event.LastError = &errorMsg

				if event.Retries >= uc.config.MaxRetries {
					event.Status = domain.OutboxEventStatusFailed
				}

				if err := uc.outboxRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			now := time.Now()
			event.Status = domain.OutboxEventStatusProcessed
			event.ProcessedAt = &now

			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

func (uc *OutboxUseCase) processEvent(ctx context.Context, event *domain.OutboxEvent) error {
	if uc.logger != nil {
		uc.logger.Info("publishing event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
		)
	}

	return uc.eventProcessor.Process(ctx, event)
}

// PublishEventProcessor delivers outbox events to the event queue.
type PublishEventProcessor struct {
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewPublishEventProcessor creates a new PublishEventProcessor
func NewPublishEventProcessor(publisher eventbus.Publisher, logger *slog.Logger) *PublishEventProcessor {
	return &PublishEventProcessor{
		publisher: publisher,
		logger:    logger,
	}
}

// Process decodes the stored payload and publishes it under the event type.
// A payload that no longer decodes cannot ever succeed, so it is reported as
// an error and will eventually exhaust its retries.
func (p *PublishEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	var payload map[string]any
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}

	return p.publisher.Publish(ctx, event.EventType, payload)
}
