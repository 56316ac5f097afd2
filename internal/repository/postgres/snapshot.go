package postgres

import (
	"context"
	"fmt"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

func (r *snapshotRepository) Create(ctx context.Context, snapshot *model.ReportSnapshot) error {
	query := `
		INSERT INTO report_snapshots (
			id, user_id, period, start_date, end_date, total_visits,
			completed_visits, total_customers, total_doctors, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.Period,
		snapshot.StartDate,
		snapshot.EndDate,
		snapshot.TotalVisits,
		snapshot.CompletedVisits,
		snapshot.TotalCustomers,
		snapshot.TotalDoctors,
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) ListByPeriod(ctx context.Context, period model.SnapshotPeriod, limit int) ([]*model.ReportSnapshot, error) {
	query := `
		SELECT id, user_id, period, start_date, end_date, total_visits,
			   completed_visits, total_customers, total_doctors, created_at
		FROM report_snapshots
		WHERE period = $1
		ORDER BY start_date DESC
		LIMIT $2
	`
	var snapshots []*model.ReportSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, period, limit); err != nil {
		return nil, fmt.Errorf("failed to list report snapshots: %w", err)
	}
	return snapshots, nil
}
