package app

import (
	"fmt"

	"github.com/allisson/go-shop-api/internal/auth"
	orderRepository "github.com/allisson/go-shop-api/internal/order/repository"
	orderUsecase "github.com/allisson/go-shop-api/internal/order/usecase"
	productRepository "github.com/allisson/go-shop-api/internal/product/repository"
	productUsecase "github.com/allisson/go-shop-api/internal/product/usecase"
	userRepository "github.com/allisson/go-shop-api/internal/user/repository"
	userUsecase "github.com/allisson/go-shop-api/internal/user/usecase"
)

// TokenService returns the JWT token service instance.
func (c *Container) TokenService() *auth.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = auth.NewTokenService(c.config.AuthSecretKey, c.config.AuthTokenExpiration)
	})
	return c.tokenService
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// ProductRepository returns the product repository instance.
func (c *Container) ProductRepository() (productUsecase.ProductRepository, error) {
	var err error
	c.productRepoInit.Do(func() {
		c.productRepo, err = c.initProductRepository()
		if err != nil {
			c.initErrors["productRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["productRepo"]; exists {
		return nil, storedErr
	}
	return c.productRepo, nil
}

// ProductUseCase returns the product use case instance.
func (c *Container) ProductUseCase() (productUsecase.UseCase, error) {
	var err error
	c.productUseCaseInit.Do(func() {
		c.productUseCase, err = c.initProductUseCase()
		if err != nil {
			c.initErrors["productUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["productUseCase"]; exists {
		return nil, storedErr
	}
	return c.productUseCase, nil
}

// OrderRepository returns the order repository instance.
func (c *Container) OrderRepository() (orderUsecase.OrderRepository, error) {
	var err error
	c.orderRepoInit.Do(func() {
		c.orderRepo, err = c.initOrderRepository()
		if err != nil {
			c.initErrors["orderRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderRepo"]; exists {
		return nil, storedErr
	}
	return c.orderRepo, nil
}

// OrderUseCase returns the order use case instance.
func (c *Container) OrderUseCase() (orderUsecase.UseCase, error) {
	var err error
	c.orderUseCaseInit.Do(func() {
		c.orderUseCase, err = c.initOrderUseCase()
		if err != nil {
			c.initErrors["orderUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderUseCase"]; exists {
		return nil, storedErr
	}
	return c.orderUseCase, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}
	return userRepository.NewPostgreSQLUserRepository(db), nil
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUsecase.UseCase, error) {
	coordinator, err := c.Coordinator()
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	useCase, err := userUsecase.NewUserUseCase(coordinator, userRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to create user use case: %w", err)
	}

	return useCase, nil
}

// initProductRepository creates the product repository instance.
func (c *Container) initProductRepository() (productUsecase.ProductRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for product repository: %w", err)
	}
	return productRepository.NewPostgreSQLProductRepository(db), nil
}

// initProductUseCase creates the product use case with all its dependencies.
func (c *Container) initProductUseCase() (productUsecase.UseCase, error) {
	coordinator, err := c.Coordinator()
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator for product use case: %w", err)
	}

	productRepo, err := c.ProductRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get product repository for product use case: %w", err)
	}

	return productUsecase.NewProductUseCase(coordinator, productRepo), nil
}

// initOrderRepository creates the order repository instance.
func (c *Container) initOrderRepository() (orderUsecase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}
	return orderRepository.NewPostgreSQLOrderRepository(db), nil
}

// initOrderUseCase creates the order use case with all its dependencies.
func (c *Container) initOrderUseCase() (orderUsecase.UseCase, error) {
	coordinator, err := c.Coordinator()
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator for order use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for order use case: %w", err)
	}

	productRepo, err := c.ProductRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get product repository for order use case: %w", err)
	}

	return orderUsecase.NewOrderUseCase(coordinator, orderRepo, productRepo), nil
}
