package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, items, total, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.Items,
		order.Total,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, user_id, items, total, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	var order model.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !model.ValidOrderStatus(order.Status) {
		return nil, fmt.Errorf("order %s has unknown status %q", id, order.Status)
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		return fmt.Errorf("unknown order status %q", status)
	}

	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("order not found")
	}

	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter *model.OrderFilter) ([]*model.Order, error) {
	query := `
		SELECT id, user_id, items, total, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if filter != nil && filter.Status != "" {
		query += " AND status = $2"
		args = append(args, filter.Status)
	}

	query += " ORDER BY created_at DESC"

	var orders []*model.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) ListAll(ctx context.Context, filter *model.OrderFilter) ([]*model.Order, error) {
	query := `
		SELECT id, user_id, items, total, status, created_at, updated_at
		FROM orders
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil && filter.Status != "" {
		query += " AND status = $1"
		args = append(args, filter.Status)
	}

	query += " ORDER BY created_at DESC"

	var orders []*model.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
