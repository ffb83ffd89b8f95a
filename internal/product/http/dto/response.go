// Package dto provides data transfer objects for the product HTTP layer.
package dto

import (
	"time"
)

// ProductResponse represents the API response for a product
type ProductResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResponse represents the API response for a product page
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}
