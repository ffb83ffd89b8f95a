// Package usecase implements the product business logic and orchestrates product domain operations.
package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	"github.com/allisson/go-shop-api/internal/cache"
	"github.com/allisson/go-shop-api/internal/consistency"
	"github.com/allisson/go-shop-api/internal/product/domain"
	appValidation "github.com/allisson/go-shop-api/internal/validation"
)

// CreateProductInput contains the input data for product creation
type CreateProductInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// UpdateProductInput contains the input data for a partial product update.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

// UseCase defines the interface for product business logic operations
type UseCase interface {
	List(ctx context.Context, offset, limit int) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// ProductRepository interface defines product repository operations
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// ProductUseCase handles product-related business logic. Reads go through
// the coordinator's cache; writes invalidate the whole products prefix since
// any mutation can change any list page.
type ProductUseCase struct {
	coordinator *consistency.Coordinator
	productRepo ProductRepository
}

// NewProductUseCase creates a new ProductUseCase
func NewProductUseCase(coordinator *consistency.Coordinator, productRepo ProductRepository) *ProductUseCase {
	return &ProductUseCase{
		coordinator: coordinator,
		productRepo: productRepo,
	}
}

func (uc *ProductUseCase) validateCreateInput(input CreateProductInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(3, 100).Error("name must be between 3 and 100 characters"),
		),
		validation.Field(&input.Price,
			validation.Required.Error("price is required"),
			validation.Min(0.01).Error("price must be greater than zero"),
		),
	)
	return appValidation.WrapValidationError(err)
}

func (uc *ProductUseCase) validateUpdateInput(input UpdateProductInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.NilOrNotEmpty.Error("name must not be empty"),
			validation.Length(3, 100).Error("name must be between 3 and 100 characters"),
		),
		validation.Field(&input.Price,
			validation.Min(0.01).Error("price must be greater than zero"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// List returns a page of products, served from the cache when fresh.
func (uc *ProductUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	return consistency.ReadThrough(ctx, uc.coordinator, cache.ProductListKey(offset, limit),
		func(ctx context.Context) ([]*domain.Product, error) {
			return uc.productRepo.List(ctx, offset, limit)
		})
}

// Get returns a single product, served from the cache when fresh.
func (uc *ProductUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return consistency.ReadThrough(ctx, uc.coordinator, cache.ProductKey(id),
		func(ctx context.Context) (*domain.Product, error) {
			return uc.productRepo.GetByID(ctx, id)
		})
}

// Create inserts a new product and invalidates all cached product entries.
func (uc *ProductUseCase) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := uc.validateCreateInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:  input.Name,
		Price: input.Price,
	}

	err := uc.coordinator.Write(ctx, nil, []string{cache.ProductPattern()},
		func(ctx context.Context) error {
			return uc.productRepo.Create(ctx, product)
		})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Update applies a partial update and invalidates all cached product entries.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	if err := uc.validateUpdateInput(input); err != nil {
		return nil, err
	}

	var product *domain.Product
	err := uc.coordinator.Write(ctx, nil, []string{cache.ProductPattern()},
		func(ctx context.Context) error {
			current, err := uc.productRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if input.Name != nil {
				current.Name = *input.Name
			}
			if input.Price != nil {
				current.Price = *input.Price
			}

			if err := uc.productRepo.Update(ctx, current); err != nil {
				return err
			}

			product = current
			return nil
		})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product and invalidates all cached product entries.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.coordinator.Write(ctx, nil, []string{cache.ProductPattern()},
		func(ctx context.Context) error {
			return uc.productRepo.Delete(ctx, id)
		})
}
