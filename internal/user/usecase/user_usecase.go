// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/go-pwdhash"

	"github.com/allisson/go-shop-api/internal/consistency"
	apperrors "github.com/allisson/go-shop-api/internal/errors"
	"github.com/allisson/go-shop-api/internal/eventbus"
	"github.com/allisson/go-shop-api/internal/user/domain"
	appValidation "github.com/allisson/go-shop-api/internal/validation"
)

// RegisterInput contains the input data for user registration
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetActiveUser(ctx context.Context, id int64) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	coordinator    *consistency.Coordinator
	userRepo       UserRepository
	passwordHasher *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	coordinator *consistency.Coordinator,
	userRepo UserRepository,
) (UseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &UserUseCase{
		coordinator:    coordinator,
		userRepo:       userRepo,
		passwordHasher: hasher,
	}, nil
}

func (uc *UserUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new active user and records a user_registered event in
// the same transaction. A duplicate email surfaces as a conflict.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		Email:    strings.TrimSpace(strings.ToLower(input.Email)),
		Password: hashedPassword,
		IsActive: true,
	}

	event := &consistency.Event{
		Type:    eventbus.EventUserRegistered,
		Payload: map[string]any{"email": user.Email},
	}

	err = uc.coordinator.Write(ctx, event, nil, func(ctx context.Context) error {
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the email/password pair. An unknown email and a
// wrong password produce the same error so the response does not reveal
// which accounts exist.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.passwordHasher.Verify([]byte(password), user.Password)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return user, nil
}

// GetActiveUser loads a user by ID and rejects deactivated accounts. Used by
// the auth middleware to resolve token subjects.
func (uc *UserUseCase) GetActiveUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return user, nil
}
