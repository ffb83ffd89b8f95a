package usecase

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/go-shop-api/internal/cache"
	"github.com/allisson/go-shop-api/internal/consistency"
	apperrors "github.com/allisson/go-shop-api/internal/errors"
	"github.com/allisson/go-shop-api/internal/product/domain"
)

// fakeTxManager runs the function directly without a real database.
type fakeTxManager struct{}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestUseCase(productRepo ProductRepository) *ProductUseCase {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	coordinator := consistency.NewCoordinator(
		&fakeTxManager{}, cache.NewMemoryStore(), nil, time.Minute, logger, nil,
	)
	return NewProductUseCase(coordinator, productRepo)
}

func TestProductUseCase_List_CachesPage(t *testing.T) {
	productRepo := &MockProductRepository{}
	uc := newTestUseCase(productRepo)
	ctx := context.Background()

	page := []*domain.Product{{ID: 1, Name: "Phone", Price: 500}}
	productRepo.On("List", mock.Anything, 0, 100).Return(page, nil).Once()

	// First call loads from the repository, second is served from cache.
	products, err := uc.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, products, 1)

	products, err = uc.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Phone", products[0].Name)
	productRepo.AssertExpectations(t)
}

func TestProductUseCase_Get(t *testing.T) {
	productRepo := &MockProductRepository{}
	uc := newTestUseCase(productRepo)
	ctx := context.Background()

	productRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Product{ID: 1, Name: "Phone", Price: 500}, nil).Once()

	product, err := uc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)

	// Cached on the second call.
	product, err = uc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Phone", product.Name)
	productRepo.AssertExpectations(t)
}

func TestProductUseCase_Get_NotFound(t *testing.T) {
	productRepo := &MockProductRepository{}
	uc := newTestUseCase(productRepo)

	productRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrProductNotFound)

	_, err := uc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input", func(t *testing.T) {
		productRepo := &MockProductRepository{}
		uc := newTestUseCase(productRepo)

		productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
			return p.Name == "Phone" && p.Price == 500
		})).Return(nil)

		product, err := uc.Create(ctx, CreateProductInput{Name: "Phone", Price: 500})
		require.NoError(t, err)
		assert.Equal(t, "Phone", product.Name)
		productRepo.AssertExpectations(t)
	})

	t.Run("name too short", func(t *testing.T) {
		productRepo := &MockProductRepository{}
		uc := newTestUseCase(productRepo)

		_, err := uc.Create(ctx, CreateProductInput{Name: "ab", Price: 500})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non-positive price", func(t *testing.T) {
		productRepo := &MockProductRepository{}
		uc := newTestUseCase(productRepo)

		_, err := uc.Create(ctx, CreateProductInput{Name: "Phone", Price: 0})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestProductUseCase_Update_InvalidatesCache(t *testing.T) {
	productRepo := &MockProductRepository{}
	uc := newTestUseCase(productRepo)
	ctx := context.Background()

	// Populate the cached page at the old price.
	productRepo.On("List", mock.Anything, 0, 100).
		Return([]*domain.Product{{ID: 1, Name: "Phone", Price: 500}}, nil).Once()
	products, err := uc.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 500.0, products[0].Price)

	// Commit a price change.
	newPrice := 450.0
	productRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Product{ID: 1, Name: "Phone", Price: 500}, nil).Once()
	productRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == 1 && p.Price == 450
	})).Return(nil)

	updated, err := uc.Update(ctx, 1, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 450.0, updated.Price)
	assert.Equal(t, "Phone", updated.Name)

	// The next list read misses the cache and sees the new price.
	productRepo.On("List", mock.Anything, 0, 100).
		Return([]*domain.Product{{ID: 1, Name: "Phone", Price: 450}}, nil).Once()
	products, err = uc.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 450.0, products[0].Price)
	productRepo.AssertExpectations(t)
}

func TestProductUseCase_Update_NotFound(t *testing.T) {
	productRepo := &MockProductRepository{}
	uc := newTestUseCase(productRepo)

	name := "Phone"
	productRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrProductNotFound)

	_, err := uc.Update(context.Background(), 42, UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductUseCase_Delete(t *testing.T) {
	productRepo := &MockProductRepository{}
	uc := newTestUseCase(productRepo)
	ctx := context.Background()

	// Warm the single-product cache entry.
	productRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Product{ID: 1, Name: "Phone", Price: 500}, nil).Once()
	_, err := uc.Get(ctx, 1)
	require.NoError(t, err)

	productRepo.On("Delete", mock.Anything, int64(1)).Return(nil)
	require.NoError(t, uc.Delete(ctx, 1))

	// The entry is gone from the cache, so the next read hits the repository.
	productRepo.On("GetByID", mock.Anything, int64(1)).Return(nil, domain.ErrProductNotFound).Once()
	_, err = uc.Get(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	productRepo.AssertExpectations(t)
}
