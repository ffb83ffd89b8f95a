// Package http provides HTTP handlers for user-related operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/go-shop-api/internal/auth"
	"github.com/allisson/go-shop-api/internal/httputil"
	"github.com/allisson/go-shop-api/internal/user/http/dto"
	"github.com/allisson/go-shop-api/internal/user/usecase"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase  usecase.UseCase
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userUseCase usecase.UseCase,
	tokenService *auth.TokenService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase:  userUseCase,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterHandler creates a new account.
// POST /api/register - Returns 201 Created with the user, 409 on duplicate email.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), dto.ToRegisterInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// LoginHandler verifies credentials and issues a JWT.
// POST /api/login - Returns 200 OK with the token, 401 on bad credentials.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	token, err := h.tokenService.Generate(user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
