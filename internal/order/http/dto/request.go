// Package dto provides data transfer objects for the order HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/go-shop-api/internal/validation"
)

// CreateOrderRequest represents the API request for order creation
type CreateOrderRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Validate validates the CreateOrderRequest
func (r *CreateOrderRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.ProductID,
			validation.Required.Error("product_id is required"),
			validation.Min(1).Error("product_id must be a positive integer"),
		),
		validation.Field(&r.Quantity,
			validation.Required.Error("quantity is required"),
			validation.Min(1).Error("quantity must be a positive integer"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateOrderStatusRequest represents the API request for an order status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the UpdateOrderStatusRequest
func (r *UpdateOrderStatusRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In("pending", "completed", "cancelled").Error(
				"status must be one of: pending, completed, cancelled"),
		),
	)
	return appValidation.WrapValidationError(err)
}
