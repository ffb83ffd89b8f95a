// Package repository provides data persistence implementations for order entities.
// Every query is scoped to the owning user; an order belonging to someone
// else is indistinguishable from a missing one.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/go-shop-api/internal/database"
	"github.com/allisson/go-shop-api/internal/order/domain"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

// PostgreSQLOrderRepository handles order persistence for PostgreSQL
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQLOrderRepository
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{
		db: db,
	}
}

// Create inserts a new order and fills in the generated ID and timestamps
func (r *PostgreSQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (user_id, product_id, quantity, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := querier.QueryRowContext(ctx, query, order.UserID, order.ProductID, order.Quantity, order.Status).Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}
	return nil
}

// GetByID retrieves an order by ID for the given owner
func (r *PostgreSQLOrderRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Order, error) {
	var order domain.Order
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, product_id, quantity, status, created_at, updated_at
			  FROM orders WHERE id = $1 AND user_id = $2`

	err := querier.QueryRowContext(ctx, query, id, userID).Scan(
		&order.ID, &order.UserID, &order.ProductID, &order.Quantity, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get order by id")
	}

	return &order, nil
}

// List retrieves the owner's orders ordered by ID with pagination.
// An empty status lists all states.
func (r *PostgreSQLOrderRepository) List(
	ctx context.Context,
	userID int64,
	status domain.Status,
	offset, limit int,
) ([]*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, product_id, quantity, status, created_at, updated_at
			  FROM orders
			  WHERE user_id = $1 AND ($2 = '' OR status = $2)
			  ORDER BY id ASC
			  OFFSET $3 LIMIT $4`

	rows, err := querier.QueryContext(ctx, query, userID, string(status), offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}
	defer rows.Close() //nolint:errcheck

	orders := []*domain.Order{}
	for rows.Next() {
		var order domain.Order

		err := rows.Scan(&order.ID, &order.UserID, &order.ProductID, &order.Quantity, &order.Status,
			&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan order")
		}

		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate orders")
	}

	return orders, nil
}

// UpdateStatus changes the status of the owner's order
func (r *PostgreSQLOrderRepository) UpdateStatus(
	ctx context.Context,
	userID, id int64,
	status domain.Status,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders
			  SET status = $1, updated_at = NOW()
			  WHERE id = $2 AND user_id = $3`

	result, err := querier.ExecContext(ctx, query, status, id, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update order status")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// Delete removes the owner's order by ID
func (r *PostgreSQLOrderRepository) Delete(ctx context.Context, userID, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM orders WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete order")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}
