// Package dto provides data transfer objects for the product HTTP layer.
package dto

import (
	"github.com/allisson/go-shop-api/internal/product/domain"
	"github.com/allisson/go-shop-api/internal/product/usecase"
)

// ToCreateProductInput converts a CreateProductRequest DTO to a use case input
func ToCreateProductInput(req CreateProductRequest) usecase.CreateProductInput {
	return usecase.CreateProductInput{
		Name:  req.Name,
		Price: req.Price,
	}
}

// ToUpdateProductInput converts an UpdateProductRequest DTO to a use case input
func ToUpdateProductInput(req UpdateProductRequest) usecase.UpdateProductInput {
	return usecase.UpdateProductInput{
		Name:  req.Name,
		Price: req.Price,
	}
}

// ToProductResponse converts a domain Product model to a ProductResponse DTO
func ToProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// ToProductListResponse converts a slice of domain Products to a list response
func ToProductListResponse(products []*domain.Product) ProductListResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, ToProductResponse(product))
	}
	return ProductListResponse{Products: responses}
}
