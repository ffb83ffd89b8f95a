package eventbus

import (
	"context"
	"log/slog"

	"github.com/allisson/go-shop-api/internal/metrics"
)

// RegisterDefaultHandlers binds the log/metrics sink for every event type
// the application emits. Logging and counting are idempotent, so redelivered
// events are harmless here; any future handler with real side effects must
// deduplicate by event identity.
func RegisterDefaultHandlers(
	d *Dispatcher,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) {
	d.Register(EventUserRegistered, logSink(EventUserRegistered, logger, businessMetrics))
	d.Register(EventOrderCreated, logSink(EventOrderCreated, logger, businessMetrics))
}

// logSink returns a handler that records the event in the log and the
// business metrics.
func logSink(eventType string, logger *slog.Logger, businessMetrics metrics.BusinessMetrics) Handler {
	return func(ctx context.Context, event *Envelope) error {
		logger.Info("received event",
			slog.String("event", event.Event),
			slog.Any("data", event.Data),
		)

		if businessMetrics != nil {
			businessMetrics.RecordOperation(ctx, "events", eventType+"_consumed", "success")
		}
		return nil
	}
}
