package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/allisson/go-shop-api/internal/outbox/domain"
)

// Recorder stores domain events in the outbox table. Called inside the
// mutation's transaction so the event commits or rolls back with the data
// change it describes.
type Recorder struct {
	outboxRepo OutboxEventRepository
}

// NewRecorder creates a new Recorder
func NewRecorder(outboxRepo OutboxEventRepository) *Recorder {
	return &Recorder{outboxRepo: outboxRepo}
}

// Record inserts a pending outbox event for the relay to publish.
func (r *Recorder) Record(ctx context.Context, eventType string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(body),
		Status:    domain.OutboxEventStatusPending,
	}

	return r.outboxRepo.Create(ctx, event)
}
