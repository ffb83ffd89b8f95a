// Package dto provides data transfer objects for the product HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/go-shop-api/internal/validation"
)

// CreateProductRequest represents the API request for product creation
type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Validate validates the CreateProductRequest
func (r *CreateProductRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(3, 100).Error("name must be between 3 and 100 characters"),
		),
		validation.Field(&r.Price,
			validation.Required.Error("price is required"),
			validation.Min(0.01).Error("price must be greater than zero"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateProductRequest represents the API request for a partial product update
type UpdateProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

// Validate validates the UpdateProductRequest
func (r *UpdateProductRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("name must not be empty"),
			validation.Length(3, 100).Error("name must be between 3 and 100 characters"),
		),
		validation.Field(&r.Price,
			validation.Min(0.01).Error("price must be greater than zero"),
		),
	)
	return appValidation.WrapValidationError(err)
}
