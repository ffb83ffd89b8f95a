package eventbus

import (
	"context"
	"log/slog"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

// Handler reacts to one decoded domain event. Handlers must tolerate
// redelivery of the same event: at-least-once semantics mean duplicates are
// possible after a consumer crash before acknowledgment.
type Handler func(ctx context.Context, event *Envelope) error

// ErrUnknownEvent indicates no handler is registered for an event type.
var ErrUnknownEvent = apperrors.New("unknown event type")

// Dispatcher decodes envelopes and routes them to handlers by event type.
// A non-nil return from Process means the message must not be acknowledged.
type Dispatcher struct {
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register binds a handler to an event type, replacing any previous one.
func (d *Dispatcher) Register(eventType string, handler Handler) {
	d.handlers[eventType] = handler
}

// Process decodes a raw message and invokes the matching handler. Decode
// failures and handler errors propagate to the subscriber, which then skips
// the ack so the broker redelivers.
func (d *Dispatcher) Process(ctx context.Context, body []byte) error {
	env, err := DecodeEnvelope(body)
	if err != nil {
		return err
	}

	handler, ok := d.handlers[env.Event]
	if !ok {
		return apperrors.Wrapf(ErrUnknownEvent, "event %q", env.Event)
	}

	if err := handler(ctx, env); err != nil {
		return apperrors.Wrapf(err, "handler for %q failed", env.Event)
	}

	if d.logger != nil {
		d.logger.Info("event handled", slog.String("event", env.Event))
	}
	return nil
}
