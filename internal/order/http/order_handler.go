// Package http provides HTTP handlers for order-related operations.
// All endpoints require authentication; the owner is taken from the request
// context set by the auth middleware.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/go-shop-api/internal/auth"
	apperrors "github.com/allisson/go-shop-api/internal/errors"
	"github.com/allisson/go-shop-api/internal/httputil"
	"github.com/allisson/go-shop-api/internal/order/domain"
	"github.com/allisson/go-shop-api/internal/order/http/dto"
	"github.com/allisson/go-shop-api/internal/order/usecase"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderUseCase usecase.UseCase
	logger       *slog.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderUseCase usecase.UseCase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

func (h *OrderHandler) ownerID(c *gin.Context) (int64, bool) {
	user, ok := auth.GetUser(c.Request.Context())
	if !ok {
		// Route misconfiguration: the auth middleware did not run.
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return 0, false
	}
	return user.ID, true
}

func parseOrderID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order ID: must be a positive integer")
	}
	return id, nil
}

// ListHandler retrieves the caller's orders with optional status filter.
// GET /api/orders?status=pending&offset=0&limit=100 - Returns 200 OK.
func (h *OrderHandler) ListHandler(c *gin.Context) {
	userID, ok := h.ownerID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	status := domain.Status(c.Query("status"))

	orders, err := h.orderUseCase.List(c.Request.Context(), userID, status, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderListResponse(orders))
}

// GetHandler retrieves one of the caller's orders by ID.
// GET /api/orders/:id - Returns 200 OK with the order.
func (h *OrderHandler) GetHandler(c *gin.Context) {
	userID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, err := parseOrderID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.Get(c.Request.Context(), userID, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// CreateHandler places a new order for the caller.
// POST /api/orders - Returns 201 Created with the pending order.
func (h *OrderHandler) CreateHandler(c *gin.Context) {
	userID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.Create(c.Request.Context(), userID, dto.ToCreateOrderInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// UpdateStatusHandler changes the status of the caller's order.
// PATCH /api/orders/:id - Returns 200 OK with the updated order.
func (h *OrderHandler) UpdateStatusHandler(c *gin.Context) {
	userID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, err := parseOrderID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.UpdateStatus(c.Request.Context(), userID, id, domain.Status(req.Status))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// DeleteHandler removes the caller's order.
// DELETE /api/orders/:id - Returns 204 No Content.
func (h *OrderHandler) DeleteHandler(c *gin.Context) {
	userID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, err := parseOrderID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.orderUseCase.Delete(c.Request.Context(), userID, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
