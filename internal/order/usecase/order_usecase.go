// Package usecase implements the order business logic and orchestrates order domain operations.
package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	"github.com/allisson/go-shop-api/internal/cache"
	"github.com/allisson/go-shop-api/internal/consistency"
	"github.com/allisson/go-shop-api/internal/eventbus"
	"github.com/allisson/go-shop-api/internal/order/domain"
	productDomain "github.com/allisson/go-shop-api/internal/product/domain"
	appValidation "github.com/allisson/go-shop-api/internal/validation"
)

// CreateOrderInput contains the input data for order creation
type CreateOrderInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UseCase defines the interface for order business logic operations
type UseCase interface {
	List(ctx context.Context, userID int64, status domain.Status, offset, limit int) ([]*domain.Order, error)
	Get(ctx context.Context, userID, id int64) (*domain.Order, error)
	Create(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, userID, id int64, status domain.Status) (*domain.Order, error)
	Delete(ctx context.Context, userID, id int64) error
}

// OrderRepository interface defines order repository operations
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, userID, id int64) (*domain.Order, error)
	List(ctx context.Context, userID int64, status domain.Status, offset, limit int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, userID, id int64, status domain.Status) error
	Delete(ctx context.Context, userID, id int64) error
}

// ProductGetter looks up products referenced by orders
type ProductGetter interface {
	GetByID(ctx context.Context, id int64) (*productDomain.Product, error)
}

// OrderUseCase handles order-related business logic. List reads go through
// the coordinator's cache under the owner's key; every write invalidates the
// owner's whole prefix so no filter combination can serve pre-write data.
type OrderUseCase struct {
	coordinator *consistency.Coordinator
	orderRepo   OrderRepository
	products    ProductGetter
}

// NewOrderUseCase creates a new OrderUseCase
func NewOrderUseCase(
	coordinator *consistency.Coordinator,
	orderRepo OrderRepository,
	products ProductGetter,
) *OrderUseCase {
	return &OrderUseCase{
		coordinator: coordinator,
		orderRepo:   orderRepo,
		products:    products,
	}
}

func (uc *OrderUseCase) validateCreateInput(input CreateOrderInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.ProductID,
			validation.Required.Error("product_id is required"),
			validation.Min(1).Error("product_id must be a positive integer"),
		),
		validation.Field(&input.Quantity,
			validation.Required.Error("quantity is required"),
			validation.Min(1).Error("quantity must be a positive integer"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// List returns a page of the owner's orders, optionally filtered by status,
// served from the cache when fresh.
func (uc *OrderUseCase) List(
	ctx context.Context,
	userID int64,
	status domain.Status,
	offset, limit int,
) ([]*domain.Order, error) {
	if status != "" && !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	key := cache.OrderListKey(userID, string(status), offset, limit)
	return consistency.ReadThrough(ctx, uc.coordinator, key,
		func(ctx context.Context) ([]*domain.Order, error) {
			return uc.orderRepo.List(ctx, userID, status, offset, limit)
		})
}

// Get returns a single order belonging to the owner.
func (uc *OrderUseCase) Get(ctx context.Context, userID, id int64) (*domain.Order, error) {
	return uc.orderRepo.GetByID(ctx, userID, id)
}

// Create places a new pending order for an existing product and records an
// order_created event in the same transaction. A missing product aborts the
// write with NotFound.
func (uc *OrderUseCase) Create(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error) {
	if err := uc.validateCreateInput(input); err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Status:    domain.StatusPending,
	}

	// The order ID is generated inside the transaction; the payload is
	// completed after the insert and before the event is recorded.
	event := &consistency.Event{
		Type:    eventbus.EventOrderCreated,
		Payload: map[string]any{},
	}

	err := uc.coordinator.Write(ctx, event, []string{cache.OrderOwnerPattern(userID)},
		func(ctx context.Context) error {
			if _, err := uc.products.GetByID(ctx, input.ProductID); err != nil {
				return err
			}

			if err := uc.orderRepo.Create(ctx, order); err != nil {
				return err
			}

			event.Payload["id"] = order.ID
			event.Payload["user_id"] = order.UserID
			event.Payload["product_id"] = order.ProductID
			event.Payload["quantity"] = order.Quantity
			event.Payload["status"] = string(order.Status)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateStatus changes the status of the owner's order. This is the only
// permitted mutation of an existing order.
func (uc *OrderUseCase) UpdateStatus(
	ctx context.Context,
	userID, id int64,
	status domain.Status,
) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	var order *domain.Order
	err := uc.coordinator.Write(ctx, nil, []string{cache.OrderOwnerPattern(userID)},
		func(ctx context.Context) error {
			if err := uc.orderRepo.UpdateStatus(ctx, userID, id, status); err != nil {
				return err
			}

			updated, err := uc.orderRepo.GetByID(ctx, userID, id)
			if err != nil {
				return err
			}

			order = updated
			return nil
		})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Delete removes the owner's order.
func (uc *OrderUseCase) Delete(ctx context.Context, userID, id int64) error {
	return uc.coordinator.Write(ctx, nil, []string{cache.OrderOwnerPattern(userID)},
		func(ctx context.Context) error {
			return uc.orderRepo.Delete(ctx, userID, id)
		})
}
