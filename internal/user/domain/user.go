// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/go-shop-api/internal/errors"
)

// User represents a registered account
type User struct {
	ID        int64
	Email     string
	Password  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates the email/password pair does not match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUserInactive indicates the account has been deactivated.
	ErrUserInactive = errors.Wrap(errors.ErrUnauthorized, "user is inactive")
)
