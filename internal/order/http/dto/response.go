// Package dto provides data transfer objects for the order HTTP layer.
package dto

import (
	"time"
)

// OrderResponse represents the API response for an order
type OrderResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderListResponse represents the API response for an order page
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}
