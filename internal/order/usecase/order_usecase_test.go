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
	"github.com/allisson/go-shop-api/internal/order/domain"
	productDomain "github.com/allisson/go-shop-api/internal/product/domain"
)

// fakeTxManager runs the function directly without a real database.
type fakeTxManager struct{}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockEventRecorder is a mock implementation of consistency.EventRecorder
type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, eventType string, payload map[string]any) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Order, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(
	ctx context.Context,
	userID int64,
	status domain.Status,
	offset, limit int,
) ([]*domain.Order, error) {
	args := m.Called(ctx, userID, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, userID, id int64, status domain.Status) error {
	args := m.Called(ctx, userID, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockProductGetter is a mock implementation of ProductGetter
type MockProductGetter struct {
	mock.Mock
}

func (m *MockProductGetter) GetByID(ctx context.Context, id int64) (*productDomain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productDomain.Product), args.Error(1)
}

type testEnv struct {
	uc        *OrderUseCase
	store     *cache.MemoryStore
	orderRepo *MockOrderRepository
	products  *MockProductGetter
	recorder  *MockEventRecorder
}

func newTestEnv() *testEnv {
	store := cache.NewMemoryStore()
	orderRepo := &MockOrderRepository{}
	products := &MockProductGetter{}
	recorder := &MockEventRecorder{}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	coordinator := consistency.NewCoordinator(
		&fakeTxManager{}, store, recorder, time.Minute, logger, nil,
	)

	return &testEnv{
		uc:        NewOrderUseCase(coordinator, orderRepo, products),
		store:     store,
		orderRepo: orderRepo,
		products:  products,
		recorder:  recorder,
	}
}

func TestOrderUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the owner's page", func(t *testing.T) {
		env := newTestEnv()

		page := []*domain.Order{{ID: 1, UserID: 7, ProductID: 3, Quantity: 2, Status: domain.StatusPending}}
		env.orderRepo.On("List", mock.Anything, int64(7), domain.Status(""), 0, 100).Return(page, nil).Once()

		orders, err := env.uc.List(ctx, 7, "", 0, 100)
		require.NoError(t, err)
		require.Len(t, orders, 1)

		// Served from cache; the repository is not called again.
		orders, err = env.uc.List(ctx, 7, "", 0, 100)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		env.orderRepo.AssertExpectations(t)
	})

	t.Run("status filter and no filter cache separately", func(t *testing.T) {
		env := newTestEnv()

		env.orderRepo.On("List", mock.Anything, int64(7), domain.Status(""), 0, 100).
			Return([]*domain.Order{{ID: 1}, {ID: 2}}, nil).Once()
		env.orderRepo.On("List", mock.Anything, int64(7), domain.StatusPending, 0, 100).
			Return([]*domain.Order{{ID: 1}}, nil).Once()

		all, err := env.uc.List(ctx, 7, "", 0, 100)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		pending, err := env.uc.List(ctx, 7, domain.StatusPending, 0, 100)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
		env.orderRepo.AssertExpectations(t)
	})

	t.Run("unknown status filter is rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.List(ctx, 7, "shipped", 0, 100)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		env.orderRepo.AssertNotCalled(t, "List",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order and records the event", func(t *testing.T) {
		env := newTestEnv()

		env.products.On("GetByID", mock.Anything, int64(3)).
			Return(&productDomain.Product{ID: 3, Name: "Phone", Price: 500}, nil)
		env.orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
			return o.UserID == 7 && o.ProductID == 3 && o.Quantity == 2 && o.Status == domain.StatusPending
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 10
		}).Return(nil)
		env.recorder.On("Record", mock.Anything, "order_created", map[string]any{
			"id":         int64(10),
			"user_id":    int64(7),
			"product_id": int64(3),
			"quantity":   2,
			"status":     "pending",
		}).Return(nil)

		order, err := env.uc.Create(ctx, 7, CreateOrderInput{ProductID: 3, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(10), order.ID)
		assert.Equal(t, domain.StatusPending, order.Status)
		env.recorder.AssertExpectations(t)
	})

	t.Run("missing product aborts with NotFound and no event", func(t *testing.T) {
		env := newTestEnv()

		env.products.On("GetByID", mock.Anything, int64(99)).Return(nil, productDomain.ErrProductNotFound)

		_, err := env.uc.Create(ctx, 7, CreateOrderInput{ProductID: 99, Quantity: 2})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		env.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		env.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid quantity is rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Create(ctx, 7, CreateOrderInput{ProductID: 3, Quantity: 0})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("invalidates only the owner's cached pages", func(t *testing.T) {
		env := newTestEnv()

		// Warm cached pages for two owners.
		require.NoError(t, env.store.Set(ctx, cache.OrderListKey(7, "", 0, 100), []byte("old"), time.Minute))
		require.NoError(t, env.store.Set(ctx, cache.OrderListKey(7, "pending", 20, 50), []byte("old"), time.Minute))
		require.NoError(t, env.store.Set(ctx, cache.OrderListKey(8, "", 0, 100), []byte("other"), time.Minute))

		env.products.On("GetByID", mock.Anything, int64(3)).
			Return(&productDomain.Product{ID: 3}, nil)
		env.orderRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 10
		}).Return(nil)
		env.recorder.On("Record", mock.Anything, "order_created", mock.Anything).Return(nil)

		_, err := env.uc.Create(ctx, 7, CreateOrderInput{ProductID: 3, Quantity: 2})
		require.NoError(t, err)

		// Every filter combination for owner 7 is gone.
		_, err = env.store.Get(ctx, cache.OrderListKey(7, "", 0, 100))
		assert.ErrorIs(t, err, cache.ErrMiss)
		_, err = env.store.Get(ctx, cache.OrderListKey(7, "pending", 20, 50))
		assert.ErrorIs(t, err, cache.ErrMiss)

		// Owner 8 is untouched.
		_, err = env.store.Get(ctx, cache.OrderListKey(8, "", 0, 100))
		assert.NoError(t, err)
	})
}

func TestOrderUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition", func(t *testing.T) {
		env := newTestEnv()

		env.orderRepo.On("UpdateStatus", mock.Anything, int64(7), int64(10), domain.StatusCompleted).Return(nil)
		env.orderRepo.On("GetByID", mock.Anything, int64(7), int64(10)).
			Return(&domain.Order{ID: 10, UserID: 7, Status: domain.StatusCompleted}, nil)

		order, err := env.uc.UpdateStatus(ctx, 7, 10, domain.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.UpdateStatus(ctx, 7, 10, "shipped")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		env.orderRepo.AssertNotCalled(t, "UpdateStatus",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("order of another owner is not found", func(t *testing.T) {
		env := newTestEnv()

		env.orderRepo.On("UpdateStatus", mock.Anything, int64(7), int64(10), domain.StatusCancelled).
			Return(domain.ErrOrderNotFound)

		_, err := env.uc.UpdateStatus(ctx, 7, 10, domain.StatusCancelled)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestOrderUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the order and invalidates the owner's pages", func(t *testing.T) {
		env := newTestEnv()

		require.NoError(t, env.store.Set(ctx, cache.OrderListKey(7, "", 0, 100), []byte("old"), time.Minute))

		env.orderRepo.On("Delete", mock.Anything, int64(7), int64(10)).Return(nil)
		require.NoError(t, env.uc.Delete(ctx, 7, 10))

		_, err := env.store.Get(ctx, cache.OrderListKey(7, "", 0, 100))
		assert.ErrorIs(t, err, cache.ErrMiss)
	})

	t.Run("not found", func(t *testing.T) {
		env := newTestEnv()

		env.orderRepo.On("Delete", mock.Anything, int64(7), int64(42)).Return(domain.ErrOrderNotFound)

		err := env.uc.Delete(ctx, 7, 42)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestOrderUseCase_Get(t *testing.T) {
	env := newTestEnv()

	env.orderRepo.On("GetByID", mock.Anything, int64(7), int64(10)).
		Return(&domain.Order{ID: 10, UserID: 7}, nil)

	order, err := env.uc.Get(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), order.ID)
}
