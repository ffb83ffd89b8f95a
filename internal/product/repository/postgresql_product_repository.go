// Package repository provides data persistence implementations for product entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/go-shop-api/internal/database"
	"github.com/allisson/go-shop-api/internal/product/domain"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

// PostgreSQLProductRepository handles product persistence for PostgreSQL
type PostgreSQLProductRepository struct {
	db *sql.DB
}

// NewPostgreSQLProductRepository creates a new PostgreSQLProductRepository
func NewPostgreSQLProductRepository(db *sql.DB) *PostgreSQLProductRepository {
	return &PostgreSQLProductRepository{
		db: db,
	}
}

// Create inserts a new product and fills in the generated ID and timestamps
func (r *PostgreSQLProductRepository) Create(ctx context.Context, product *domain.Product) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO products (name, price, created_at, updated_at)
			  VALUES ($1, $2, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := querier.QueryRowContext(ctx, query, product.Name, product.Price).Scan(
		&product.ID, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create product")
	}
	return nil
}

// GetByID retrieves a product by ID
func (r *PostgreSQLProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, price, created_at, updated_at
			  FROM products WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Price, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get product by id")
	}

	return &product, nil
}

// List retrieves products ordered by ID with pagination
func (r *PostgreSQLProductRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, price, created_at, updated_at
			  FROM products
			  ORDER BY id ASC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list products")
	}
	defer rows.Close() //nolint:errcheck

	products := []*domain.Product{}
	for rows.Next() {
		var product domain.Product

		err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan product")
		}

		products = append(products, &product)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate products")
	}

	return products, nil
}

// Update persists changed fields of an existing product
func (r *PostgreSQLProductRepository) Update(ctx context.Context, product *domain.Product) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE products
			  SET name = $1, price = $2, updated_at = NOW()
			  WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, product.Name, product.Price, product.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Delete removes a product by ID
func (r *PostgreSQLProductRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM products WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}
