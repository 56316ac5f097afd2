package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/email"
	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	"github.com/tacmedikal/fieldtrack-api/internal/service/report"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/metrics"
)

// Snapshotter writes periodic report rollups and mails the weekly summary
// to administrators.
type Snapshotter struct {
	snapshots repository.SnapshotRepository
	visits    repository.VisitRepository
	customers repository.CustomerRepository
	doctors   repository.DoctorRepository
	users     repository.UserRepository
	reports   *report.Service
	mail      email.Sender
	logger    *logger.Logger
	metrics   *metrics.Metrics

	now func() time.Time
}

func NewSnapshotter(
	snapshots repository.SnapshotRepository,
	visits repository.VisitRepository,
	customers repository.CustomerRepository,
	doctors repository.DoctorRepository,
	users repository.UserRepository,
	reports *report.Service,
	mail email.Sender,
	log *logger.Logger,
	m *metrics.Metrics,
) *Snapshotter {
	return &Snapshotter{
		snapshots: snapshots,
		visits:    visits,
		customers: customers,
		doctors:   doctors,
		users:     users,
		reports:   reports,
		mail:      mail,
		logger:    log,
		metrics:   m,
		now:       time.Now,
	}
}

// RunDailySnapshot persists yesterday's rollup: one organization-wide row
// plus one row per field-sales user.
func (s *Snapshotter) RunDailySnapshot(ctx context.Context) error {
	start := s.now()
	s.metrics.SnapshotRuns.Inc()

	defer func() {
		s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	}()

	now := s.now()
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayStart := dayEnd.AddDate(0, 0, -1)

	visits, err := s.visits.ListRange(ctx, dayStart, dayEnd)
	if err != nil {
		s.metrics.SnapshotFailures.Inc()
		return fmt.Errorf("failed to load visits for snapshot: %w", err)
	}
	customers, err := s.customers.ListAll(ctx)
	if err != nil {
		s.metrics.SnapshotFailures.Inc()
		return fmt.Errorf("failed to load customers for snapshot: %w", err)
	}
	doctors, err := s.doctors.ListAll(ctx)
	if err != nil {
		s.metrics.SnapshotFailures.Inc()
		return fmt.Errorf("failed to load doctors for snapshot: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		s.metrics.SnapshotFailures.Inc()
		return fmt.Errorf("failed to load users for snapshot: %w", err)
	}

	org := s.buildSnapshot(nil, visits, len(customers), len(doctors), dayStart, dayEnd)
	if err := s.snapshots.Create(ctx, org); err != nil {
		s.metrics.SnapshotFailures.Inc()
		return fmt.Errorf("failed to store organization snapshot: %w", err)
	}

	for _, u := range users {
		if u.Role != model.RoleUser {
			continue
		}

		var own []*model.Visit
		for _, v := range visits {
			if v.UserID == u.ID {
				own = append(own, v)
			}
		}

		customerCount := 0
		for _, c := range customers {
			if c.UserID == u.ID {
				customerCount++
			}
		}
		doctorCount := 0
		for _, d := range doctors {
			if d.UserID == u.ID {
				doctorCount++
			}
		}

		userID := u.ID
		snap := s.buildSnapshot(&userID, own, customerCount, doctorCount, dayStart, dayEnd)
		if err := s.snapshots.Create(ctx, snap); err != nil {
			s.metrics.SnapshotFailures.Inc()
			s.logger.Error(err, "failed to store user snapshot", "user_id", u.ID.String())
		}
	}

	s.logger.Info("daily snapshot complete",
		"visits", len(visits),
		"day", dayStart.Format("2006-01-02"),
	)
	return nil
}

func (s *Snapshotter) buildSnapshot(userID *uuid.UUID, visits []*model.Visit, customers, doctors int, start, end time.Time) *model.ReportSnapshot {
	completed := 0
	for _, v := range visits {
		if v.Status == model.VisitStatusCompleted {
			completed++
		}
	}

	return &model.ReportSnapshot{
		ID:              uuid.New(),
		UserID:          userID,
		Period:          model.SnapshotPeriodDaily,
		StartDate:       start,
		EndDate:         end,
		TotalVisits:     len(visits),
		CompletedVisits: completed,
		TotalCustomers:  customers,
		TotalDoctors:    doctors,
		CreatedAt:       s.now(),
	}
}

// RunWeeklySummary mails the per-user performance ranking to every admin.
func (s *Snapshotter) RunWeeklySummary(ctx context.Context) error {
	ranking, err := s.reports.AdminUserStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to build weekly summary: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load admins for weekly summary: %w", err)
	}

	body := summaryBody(ranking)
	subject := fmt.Sprintf("Weekly field report - %s", s.now().Format("02 Jan 2006"))

	sent := 0
	for _, u := range users {
		if u.Role != model.RoleAdmin || u.Status != model.UserStatusActive {
			continue
		}
		if err := s.mail.Send(u.Email, subject, body); err != nil {
			s.logger.Warn("weekly summary delivery failed", "to", u.Email, "error", err.Error())
			continue
		}
		sent++
	}

	s.logger.Info("weekly summary sent", "recipients", sent)
	return nil
}

func summaryBody(ranking []*model.UserStats) string {
	var b strings.Builder
	b.WriteString("<h2>Weekly performance ranking</h2>")
	b.WriteString("<table><tr><th>#</th><th>User</th><th>Visits</th><th>Customers</th><th>Doctors</th></tr>")
	for i, st := range ranking {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			i+1, st.Email, st.VisitCount, st.CustomerCount, st.DoctorCount)
	}
	b.WriteString("</table>")
	return b.String()
}
