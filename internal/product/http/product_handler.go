// Package http provides HTTP handlers for product-related operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/go-shop-api/internal/httputil"
	"github.com/allisson/go-shop-api/internal/product/http/dto"
	"github.com/allisson/go-shop-api/internal/product/usecase"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productUseCase usecase.UseCase
	logger         *slog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productUseCase usecase.UseCase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
		logger:         logger,
	}
}

func parseProductID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product ID: must be a positive integer")
	}
	return id, nil
}

// ListHandler retrieves products with pagination support.
// GET /api/products?offset=0&limit=100 - Returns 200 OK with a product page.
func (h *ProductHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	products, err := h.productUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductListResponse(products))
}

// GetHandler retrieves a product by ID.
// GET /api/products/:id - Returns 200 OK with the product.
func (h *ProductHandler) GetHandler(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	product, err := h.productUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// CreateHandler creates a new product.
// POST /api/products - Returns 201 Created with the product.
func (h *ProductHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	product, err := h.productUseCase.Create(c.Request.Context(), dto.ToCreateProductInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// UpdateHandler applies a partial update to a product.
// PATCH /api/products/:id - Returns 200 OK with the updated product.
func (h *ProductHandler) UpdateHandler(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	product, err := h.productUseCase.Update(c.Request.Context(), id, dto.ToUpdateProductInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// DeleteHandler removes a product.
// DELETE /api/products/:id - Returns 204 No Content.
func (h *ProductHandler) DeleteHandler(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.productUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
