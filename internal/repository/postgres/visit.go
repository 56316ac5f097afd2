package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

const visitColumns = `id, user_id, customer_id, customer_name, doctor_id, doctor_name,
	   doctor_specialty, purpose, notes, visit_date, status, calendar_event_id,
	   created_at, updated_at`

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (
			id, user_id, customer_id, customer_name, doctor_id, doctor_name,
			doctor_specialty, purpose, notes, visit_date, status, calendar_event_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		visit.ID,
		visit.UserID,
		visit.CustomerID,
		visit.CustomerName,
		visit.DoctorID,
		visit.DoctorName,
		visit.DoctorSpecialty,
		visit.Purpose,
		visit.Notes,
		visit.VisitDate,
		visit.Status,
		visit.CalendarEventID,
		visit.CreatedAt,
		visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE id = $1`, visitColumns)

	var visit model.Visit
	if err := r.db.GetContext(ctx, &visit, query, id); err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	if !model.ValidVisitStatus(visit.Status) {
		return nil, fmt.Errorf("visit %s has unknown status %q", id, visit.Status)
	}
	return &visit, nil
}

func (r *visitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("visit not found")
	}

	return nil
}

func (r *visitRepository) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	query := `UPDATE visits SET calendar_event_id = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, eventID, time.Now(), id); err != nil {
		return fmt.Errorf("failed to set calendar event id: %w", err)
	}
	return nil
}

func (r *visitRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter *model.VisitFilter) ([]*model.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE user_id = $1`, visitColumns)
	args := []interface{}{userID}
	argCount := 2

	if filter != nil {
		if filter.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filter.Status)
			argCount++
		}
		if !filter.StartDate.IsZero() {
			query += fmt.Sprintf(" AND visit_date >= $%d", argCount)
			args = append(args, filter.StartDate)
			argCount++
		}
		if !filter.EndDate.IsZero() {
			query += fmt.Sprintf(" AND visit_date < $%d", argCount)
			args = append(args, filter.EndDate)
			argCount++
		}
	}

	query += " ORDER BY visit_date DESC"

	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Visit, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM visits
		WHERE user_id = $1
		ORDER BY visit_date DESC
		LIMIT $2
	`, visitColumns)

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) ListAll(ctx context.Context) ([]*model.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits ORDER BY visit_date DESC`, visitColumns)

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) ListRange(ctx context.Context, start, end time.Time) ([]*model.Visit, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM visits
		WHERE visit_date >= $1 AND visit_date < $2
		ORDER BY visit_date DESC
	`, visitColumns)

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list visits in range: %w", err)
	}
	return visits, nil
}
