package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, user_id, customer_id, name, title, specialty, phone, email,
			status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.CustomerID,
		doctor.Name,
		doctor.Title,
		doctor.Specialty,
		doctor.Phone,
		doctor.Email,
		doctor.Status,
		doctor.Notes,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, user_id, customer_id, name, title, specialty, phone, email,
			   status, notes, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, title = $2, specialty = $3, phone = $4, email = $5,
			status = $6, notes = $7, updated_at = $8
		WHERE id = $9
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Title,
		doctor.Specialty,
		doctor.Phone,
		doctor.Email,
		doctor.Status,
		doctor.Notes,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor not found")
	}

	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor not found")
	}

	return nil
}

func (r *doctorRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT id, user_id, customer_id, name, title, specialty, phone, email,
			   status, notes, created_at, updated_at
		FROM doctors
		WHERE user_id = $1
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT id, user_id, customer_id, name, title, specialty, phone, email,
			   status, notes, created_at, updated_at
		FROM doctors
		WHERE customer_id = $1
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list doctors by customer: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListAll(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, user_id, customer_id, name, title, specialty, phone, email,
			   status, notes, created_at, updated_at
		FROM doctors
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
