// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"time"
)

// UserResponse represents the API response for a user.
// It excludes the password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenResponse represents the API response for a successful login
type TokenResponse struct {
	Token string `json:"token"`
}
