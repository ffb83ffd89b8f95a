// Package domain defines the core order domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/go-shop-api/internal/errors"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order represents a purchase of a product by a user
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Domain-specific errors for order operations.
var (
	// ErrOrderNotFound indicates the requested order does not exist for this owner.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrInvalidStatus indicates an unknown order status value.
	ErrInvalidStatus = errors.Wrap(errors.ErrInvalidInput, "invalid order status")
)
