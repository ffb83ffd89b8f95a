// Package dto provides data transfer objects for the order HTTP layer.
package dto

import (
	"github.com/allisson/go-shop-api/internal/order/domain"
	"github.com/allisson/go-shop-api/internal/order/usecase"
)

// ToCreateOrderInput converts a CreateOrderRequest DTO to a use case input
func ToCreateOrderInput(req CreateOrderRequest) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
}

// ToOrderResponse converts a domain Order model to an OrderResponse DTO
func ToOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// ToOrderListResponse converts a slice of domain Orders to a list response
func ToOrderListResponse(orders []*domain.Order) OrderListResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToOrderResponse(order))
	}
	return OrderListResponse{Orders: responses}
}
