package worker

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/service/report"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/metrics"
)

type fakeSnapshotRepo struct {
	created []*model.ReportSnapshot
}

func (f *fakeSnapshotRepo) Create(ctx context.Context, s *model.ReportSnapshot) error {
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSnapshotRepo) ListByPeriod(ctx context.Context, period model.SnapshotPeriod, limit int) ([]*model.ReportSnapshot, error) {
	return f.created, nil
}

type fakeVisitRepo struct {
	visits []*model.Visit
}

func (f *fakeVisitRepo) Create(ctx context.Context, v *model.Visit) error { return nil }
func (f *fakeVisitRepo) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	return nil, nil
}
func (f *fakeVisitRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeVisitRepo) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	return nil
}
func (f *fakeVisitRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter *model.VisitFilter) ([]*model.Visit, error) {
	return nil, nil
}
func (f *fakeVisitRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Visit, error) {
	return nil, nil
}
func (f *fakeVisitRepo) ListAll(ctx context.Context) ([]*model.Visit, error) {
	return f.visits, nil
}
func (f *fakeVisitRepo) ListRange(ctx context.Context, start, end time.Time) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, v := range f.visits {
		if !v.VisitDate.Before(start) && v.VisitDate.Before(end) {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	customers []*model.Customer
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *model.Customer) error { return nil }
func (f *fakeCustomerRepo) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(ctx context.Context, c *model.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (f *fakeCustomerRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) ListAll(ctx context.Context) ([]*model.Customer, error) {
	return f.customers, nil
}

type fakeDoctorRepo struct{}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) Update(ctx context.Context, d *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error    { return nil }
func (f *fakeDoctorRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Doctor, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Doctor, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) ListAll(ctx context.Context) ([]*model.Doctor, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return nil
}
func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (f *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return f.users, nil
}

type recordingSender struct {
	to []string
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.to = append(r.to, to)
	return nil
}

func TestRunDailySnapshot(t *testing.T) {
	now := time.Date(2025, 3, 15, 3, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	rep := &model.User{Base: model.Base{ID: uuid.New()}, Email: "rep@tacmed.com", Role: model.RoleUser, Status: model.UserStatusActive}
	admin := &model.User{Base: model.Base{ID: uuid.New()}, Email: "admin@tacmed.com", Role: model.RoleAdmin, Status: model.UserStatusActive}

	visits := &fakeVisitRepo{visits: []*model.Visit{
		{Base: model.Base{ID: uuid.New()}, UserID: rep.ID, VisitDate: yesterday, Status: model.VisitStatusCompleted},
		{Base: model.Base{ID: uuid.New()}, UserID: rep.ID, VisitDate: yesterday, Status: model.VisitStatusPending},
		// outside the window
		{Base: model.Base{ID: uuid.New()}, UserID: rep.ID, VisitDate: now.Add(time.Hour), Status: model.VisitStatusCompleted},
	}}
	customers := &fakeCustomerRepo{customers: []*model.Customer{
		{Base: model.Base{ID: uuid.New()}, UserID: rep.ID},
	}}
	users := &fakeUserRepo{users: []*model.User{rep, admin}}
	snapshots := &fakeSnapshotRepo{}

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test", "worker")
	reports := report.NewService(visits, customers, &fakeDoctorRepo{}, users, 20)

	s := NewSnapshotter(snapshots, visits, customers, &fakeDoctorRepo{}, users, reports, &recordingSender{}, log, m)
	s.now = func() time.Time { return now }

	require.NoError(t, s.RunDailySnapshot(context.Background()))

	// one organization row plus one row for the single field-sales user
	require.Len(t, snapshots.created, 2)

	org := snapshots.created[0]
	assert.Nil(t, org.UserID)
	assert.Equal(t, 2, org.TotalVisits)
	assert.Equal(t, 1, org.CompletedVisits)
	assert.Equal(t, 1, org.TotalCustomers)

	user := snapshots.created[1]
	require.NotNil(t, user.UserID)
	assert.Equal(t, rep.ID, *user.UserID)
	assert.Equal(t, 2, user.TotalVisits)
	assert.Equal(t, 1, user.CompletedVisits)
}

func TestRunWeeklySummaryMailsAdminsOnly(t *testing.T) {
	rep := &model.User{Base: model.Base{ID: uuid.New()}, Email: "rep@tacmed.com", Role: model.RoleUser, Status: model.UserStatusActive}
	admin := &model.User{Base: model.Base{ID: uuid.New()}, Email: "admin@tacmed.com", Role: model.RoleAdmin, Status: model.UserStatusActive}
	inactive := &model.User{Base: model.Base{ID: uuid.New()}, Email: "gone@tacmed.com", Role: model.RoleAdmin, Status: model.UserStatusInactive}

	visits := &fakeVisitRepo{}
	customers := &fakeCustomerRepo{}
	users := &fakeUserRepo{users: []*model.User{rep, admin, inactive}}
	mail := &recordingSender{}

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test", "worker")
	reports := report.NewService(visits, customers, &fakeDoctorRepo{}, users, 20)

	s := NewSnapshotter(&fakeSnapshotRepo{}, visits, customers, &fakeDoctorRepo{}, users, reports, mail, log, m)

	require.NoError(t, s.RunWeeklySummary(context.Background()))
	assert.Equal(t, []string{"admin@tacmed.com"}, mail.to)
}
