// Package domain defines the core product domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/go-shop-api/internal/errors"
)

// Product represents a catalog item
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Domain-specific errors for product operations.
var (
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.Wrap(errors.ErrNotFound, "product not found")
)
