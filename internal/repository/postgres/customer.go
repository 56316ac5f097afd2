package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (
			id, user_id, name, type, address, city, phone, email,
			contact_person, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.UserID,
		customer.Name,
		customer.Type,
		customer.Address,
		customer.City,
		customer.Phone,
		customer.Email,
		customer.ContactPerson,
		customer.Status,
		customer.Notes,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `
		SELECT id, user_id, name, type, address, city, phone, email,
			   contact_person, status, notes, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	var customer model.Customer
	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if !model.ValidCustomerType(customer.Type) {
		return nil, fmt.Errorf("customer %s has unknown type %q", id, customer.Type)
	}
	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, type = $2, address = $3, city = $4, phone = $5,
			email = $6, contact_person = $7, status = $8, notes = $9, updated_at = $10
		WHERE id = $11
	`
	customer.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Type,
		customer.Address,
		customer.City,
		customer.Phone,
		customer.Email,
		customer.ContactPerson,
		customer.Status,
		customer.Notes,
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("customer not found")
	}

	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("customer not found")
	}

	return nil
}

func (r *customerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Customer, error) {
	query := `
		SELECT id, user_id, name, type, address, city, phone, email,
			   contact_person, status, notes, created_at, updated_at
		FROM customers
		WHERE user_id = $1
		ORDER BY name ASC
	`
	var customers []*model.Customer
	if err := r.db.SelectContext(ctx, &customers, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) ListAll(ctx context.Context) ([]*model.Customer, error) {
	query := `
		SELECT id, user_id, name, type, address, city, phone, email,
			   contact_person, status, notes, created_at, updated_at
		FROM customers
		ORDER BY name ASC
	`
	var customers []*model.Customer
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
