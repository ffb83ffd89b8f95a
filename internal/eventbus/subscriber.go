package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

// SubscriberConfig holds the broker settings for the consumer side.
type SubscriberConfig struct {
	ClusterID   string
	ClientID    string
	URL         string
	Subject     string
	DurableName string
	QueueGroup  string
	AckWait     time.Duration
}

// StanSubscriber drains the durable queue one message at a time. Multiple
// worker processes join the same queue group and the broker fans messages
// out between them.
type StanSubscriber struct {
	config SubscriberConfig
	logger *slog.Logger
}

// NewStanSubscriber creates a subscriber for the given broker configuration.
func NewStanSubscriber(config SubscriberConfig, logger *slog.Logger) *StanSubscriber {
	return &StanSubscriber{config: config, logger: logger}
}

// Subscribe connects to the broker and processes messages with the given
// dispatcher until ctx is cancelled. A message is acknowledged only after
// the dispatcher returns nil; on any failure the ack is withheld and the
// broker redelivers after AckWait. A failed message is therefore never
// silently dropped.
func (s *StanSubscriber) Subscribe(ctx context.Context, dispatcher *Dispatcher) error {
	clientID := fmt.Sprintf("%s-%s", s.config.ClientID, uuid.Must(uuid.NewV7()).String())

	conn, err := stan.Connect(s.config.ClusterID, clientID, stan.NatsURL(s.config.URL))
	if err != nil {
		return apperrors.Wrap(ErrBrokerUnavailable, err.Error())
	}

	handleMsg := func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(context.Background(), s.config.AckWait)
		defer cancel()

		if err := dispatcher.Process(hCtx, m.Data); err != nil {
			// No ack: the broker redelivers after AckWait.
			s.logger.Error("event processing failed, message will be redelivered",
				slog.Uint64("sequence", m.Sequence),
				slog.Any("error", err),
			)
			return
		}

		if err := m.Ack(); err != nil {
			s.logger.Error("failed to ack message", slog.Any("error", err))
		}
	}

	sub, err := conn.QueueSubscribe(
		s.config.Subject,
		s.config.QueueGroup,
		handleMsg,
		stan.DurableName(s.config.DurableName),
		stan.SetManualAckMode(),
		stan.AckWait(s.config.AckWait),
		stan.MaxInflight(1),
		stan.DeliverAllAvailable(),
	)
	if err != nil {
		_ = conn.Close()
		return apperrors.Wrap(ErrBrokerUnavailable, err.Error())
	}

	s.logger.Info("consuming events",
		slog.String("subject", s.config.Subject),
		slog.String("queue_group", s.config.QueueGroup),
		slog.String("durable", s.config.DurableName),
	)

	<-ctx.Done()

	// Close the durable subscription without unsubscribing so redeliveries
	// resume where this worker left off.
	if err := sub.Close(); err != nil {
		s.logger.Error("failed to close subscription", slog.Any("error", err))
	}
	return conn.Close()
}
