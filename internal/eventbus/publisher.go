package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

// ErrBrokerUnavailable indicates the broker could not be reached or the
// publish did not complete. The message may or may not have been stored;
// callers retry, relying on at-least-once semantics downstream.
var ErrBrokerUnavailable = apperrors.Wrap(apperrors.ErrUnavailable, "broker unavailable")

// Publisher defines the producer side of the event bus.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data map[string]any) error
	Close() error
}

// PublisherConfig holds the broker connection settings for the producer.
type PublisherConfig struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
}

// StanPublisher publishes envelopes to a NATS Streaming channel. The
// streaming server persists the channel, so a stored message survives broker
// restart. One connection is dialed lazily and kept for the process
// lifetime; a failed connection is dropped and re-dialed on the next call.
type StanPublisher struct {
	config PublisherConfig

	mu   sync.Mutex
	conn stan.Conn
}

// NewStanPublisher creates a publisher for the given broker configuration.
func NewStanPublisher(config PublisherConfig) *StanPublisher {
	return &StanPublisher{config: config}
}

// connect returns the live connection, dialing if needed. Caller holds p.mu.
func (p *StanPublisher) connect() (stan.Conn, error) {
	if p.conn != nil {
		return p.conn, nil
	}

	clientID := fmt.Sprintf("%s-%s", p.config.ClientID, uuid.Must(uuid.NewV7()).String())
	conn, err := stan.Connect(p.config.ClusterID, clientID, stan.NatsURL(p.config.URL))
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return conn, nil
}

// Publish encodes {event, data} and publishes it to the well-known subject.
// The call blocks until the streaming server acknowledges the store, giving
// at-least-once delivery once it returns nil.
func (p *StanPublisher) Publish(ctx context.Context, eventType string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := EncodeEnvelope(eventType, data)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.connect()
	if err != nil {
		return apperrors.Wrap(ErrBrokerUnavailable, err.Error())
	}

	if err := conn.Publish(p.config.Subject, body); err != nil {
		// Drop the connection so the next publish re-dials.
		_ = conn.Close()
		p.conn = nil
		return apperrors.Wrap(ErrBrokerUnavailable, err.Error())
	}

	return nil
}

// Close closes the broker connection if one was established.
func (p *StanPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

var _ Publisher = (*StanPublisher)(nil)
