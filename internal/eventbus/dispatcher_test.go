package eventbus

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestDispatcher_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("routes to the registered handler", func(t *testing.T) {
		d := NewDispatcher(testLogger())

		var seen *Envelope
		d.Register(EventOrderCreated, func(ctx context.Context, event *Envelope) error {
			seen = event
			return nil
		})

		body, err := EncodeEnvelope(EventOrderCreated, map[string]any{"id": float64(1)})
		require.NoError(t, err)

		require.NoError(t, d.Process(ctx, body))
		require.NotNil(t, seen)
		assert.Equal(t, EventOrderCreated, seen.Event)
		assert.Equal(t, float64(1), seen.Data["id"])
	})

	t.Run("handler error propagates so the message is not acked", func(t *testing.T) {
		d := NewDispatcher(testLogger())
		d.Register(EventOrderCreated, func(ctx context.Context, event *Envelope) error {
			return assert.AnError
		})

		body, err := EncodeEnvelope(EventOrderCreated, map[string]any{"id": float64(1)})
		require.NoError(t, err)

		err = d.Process(ctx, body)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("decode error propagates", func(t *testing.T) {
		d := NewDispatcher(testLogger())

		err := d.Process(ctx, []byte(`{broken`))
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("unknown event type is an error", func(t *testing.T) {
		d := NewDispatcher(testLogger())

		body, err := EncodeEnvelope("price_changed", map[string]any{})
		require.NoError(t, err)

		err = d.Process(ctx, body)
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("redelivered event reaches the handler again", func(t *testing.T) {
		d := NewDispatcher(testLogger())

		calls := 0
		d.Register(EventUserRegistered, func(ctx context.Context, event *Envelope) error {
			calls++
			return nil
		})

		body, err := EncodeEnvelope(EventUserRegistered, map[string]any{"email": "a@b.com"})
		require.NoError(t, err)

		require.NoError(t, d.Process(ctx, body))
		require.NoError(t, d.Process(ctx, body))
		assert.Equal(t, 2, calls)
	})
}

func TestRegisterDefaultHandlers(t *testing.T) {
	d := NewDispatcher(testLogger())
	RegisterDefaultHandlers(d, testLogger(), nil)

	for _, eventType := range []string{EventUserRegistered, EventOrderCreated} {
		body, err := EncodeEnvelope(eventType, map[string]any{"email": "a@b.com"})
		require.NoError(t, err)
		assert.NoError(t, d.Process(context.Background(), body))
	}
}
