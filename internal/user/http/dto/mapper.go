// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"github.com/allisson/go-shop-api/internal/user/domain"
	"github.com/allisson/go-shop-api/internal/user/usecase"
)

// ToRegisterInput converts a RegisterRequest DTO to a RegisterInput use case input
func ToRegisterInput(req RegisterRequest) usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToUserResponse converts a domain User model to a UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
