// Package eventbus provides the durable domain-event transport: a JSON
// envelope codec, a NATS Streaming publisher, and a queue subscriber that
// acknowledges messages only after successful handling.
package eventbus

import (
	"encoding/json"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

// Event types emitted by the application.
const (
	EventUserRegistered = "user_registered"
	EventOrderCreated   = "order_created"
)

// Envelope is the wire format for every message on the event queue.
type Envelope struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// ErrDecode indicates a message body could not be decoded into an envelope.
// Such messages must never be acknowledged as handled.
var ErrDecode = apperrors.New("failed to decode event envelope")

// EncodeEnvelope serializes an event type and payload into the wire format.
func EncodeEnvelope(eventType string, data map[string]any) ([]byte, error) {
	body, err := json.Marshal(Envelope{Event: eventType, Data: data})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode event envelope")
	}
	return body, nil
}

// DecodeEnvelope parses a message body into an envelope. A missing event
// type is a decode error: there is nothing to dispatch on.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.Wrap(ErrDecode, err.Error())
	}
	if env.Event == "" {
		return nil, apperrors.Wrap(ErrDecode, "missing event type")
	}
	return &env, nil
}
