// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/go-shop-api/internal/validation"
)

// RegisterRequest represents the API request for user registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the RegisterRequest using the jellydator/validation library
func (r *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// LoginRequest represents the API request for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the LoginRequest
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}
