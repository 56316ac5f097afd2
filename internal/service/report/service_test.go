package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

type fakeVisitRepo struct {
	visits []*model.Visit
	err    error
}

func (f *fakeVisitRepo) Create(ctx context.Context, v *model.Visit) error { return f.err }
func (f *fakeVisitRepo) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	return nil, f.err
}
func (f *fakeVisitRepo) Delete(ctx context.Context, id uuid.UUID) error { return f.err }
func (f *fakeVisitRepo) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	return f.err
}
func (f *fakeVisitRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter *model.VisitFilter) ([]*model.Visit, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Visit
	for _, v := range f.visits {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}
func (f *fakeVisitRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Visit, error) {
	if f.err != nil {
		return nil, f.err
	}
	out, _ := f.ListByUser(ctx, userID, nil)
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
func (f *fakeVisitRepo) ListAll(ctx context.Context) ([]*model.Visit, error) {
	return f.visits, f.err
}
func (f *fakeVisitRepo) ListRange(ctx context.Context, start, end time.Time) ([]*model.Visit, error) {
	if f.err != nil {
		return nil, f.err
	}
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
	err       error
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *model.Customer) error { return f.err }
func (f *fakeCustomerRepo) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return nil, f.err
}
func (f *fakeCustomerRepo) Update(ctx context.Context, c *model.Customer) error { return f.err }
func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error      { return f.err }
func (f *fakeCustomerRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Customer
	for _, c := range f.customers {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeCustomerRepo) ListAll(ctx context.Context) ([]*model.Customer, error) {
	return f.customers, f.err
}

type fakeDoctorRepo struct {
	doctors []*model.Doctor
	err     error
}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return f.err }
func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return nil, f.err
}
func (f *fakeDoctorRepo) Update(ctx context.Context, d *model.Doctor) error { return f.err }
func (f *fakeDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error    { return f.err }
func (f *fakeDoctorRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Doctor
	for _, d := range f.doctors {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (f *fakeDoctorRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Doctor, error) {
	return nil, f.err
}
func (f *fakeDoctorRepo) ListAll(ctx context.Context) ([]*model.Doctor, error) {
	return f.doctors, f.err
}

type fakeUserRepo struct {
	users []*model.User
	err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return f.err }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, f.err
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, f.err
}
func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error { return f.err }
func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return f.err
}
func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return f.err
}
func (f *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return f.users, f.err
}

func userVisit(userID uuid.UUID, at time.Time, customer string) *model.Visit {
	v := visitAt(at, customer)
	v.UserID = userID
	return v
}

func newTestService(visits *fakeVisitRepo, customers *fakeCustomerRepo, doctors *fakeDoctorRepo, users *fakeUserRepo, now time.Time) *Service {
	svc := NewService(visits, customers, doctors, users, 20)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboard(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	visits := &fakeVisitRepo{visits: []*model.Visit{
		userVisit(userID, now.Add(-1*time.Hour), "Acme Hospital"),
		userVisit(userID, now.Add(-2*time.Hour), "Acme Hospital"),
		userVisit(userID, now.AddDate(0, 0, -3), "City Clinic"),
		userVisit(uuid.New(), now, "Other User Clinic"),
	}}
	customers := &fakeCustomerRepo{customers: []*model.Customer{
		{Base: model.Base{ID: uuid.New()}, UserID: userID, Name: "Acme Hospital"},
	}}
	doctors := &fakeDoctorRepo{}
	users := &fakeUserRepo{}

	svc := newTestService(visits, customers, doctors, users, now)

	stats, err := svc.Dashboard(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Windows.Today)
	assert.Equal(t, 3, stats.Windows.Week)
	assert.Equal(t, 3, stats.Windows.Month)
	assert.Equal(t, 20, stats.Metrics.MonthlyTarget)
	assert.Equal(t, 15.0, stats.Metrics.CompletionRate)
	assert.Equal(t, 100.0, stats.Metrics.GrowthRate)
	assert.Equal(t, 0.1, stats.Metrics.AvgPerDay)
	assert.Equal(t, "Acme Hospital", stats.Metrics.TopCustomer)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Equal(t, 0, stats.TotalDoctors)
	assert.Len(t, stats.RecentVisits, 3)
}

func TestDashboardEmpty(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeVisitRepo{}, &fakeCustomerRepo{}, &fakeDoctorRepo{}, &fakeUserRepo{}, now)

	stats, err := svc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.WindowCounts{}, stats.Windows)
	assert.Equal(t, 0.0, stats.Metrics.CompletionRate)
	assert.Equal(t, 0.0, stats.Metrics.GrowthRate)
	assert.Equal(t, "", stats.Metrics.TopCustomer)
}

func TestDashboardCached(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	visits := &fakeVisitRepo{visits: []*model.Visit{
		userVisit(userID, now, "Acme Hospital"),
	}}
	svc := newTestService(visits, &fakeCustomerRepo{}, &fakeDoctorRepo{}, &fakeUserRepo{}, now)

	first, err := svc.Dashboard(context.Background(), userID)
	require.NoError(t, err)

	// repo failures after the first call are invisible while cached
	visits.err = errors.New("db down")
	second, err := svc.Dashboard(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDashboardRepoError(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	visits := &fakeVisitRepo{err: errors.New("db down")}
	svc := newTestService(visits, &fakeCustomerRepo{}, &fakeDoctorRepo{}, &fakeUserRepo{}, now)

	_, err := svc.Dashboard(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestAdminOverview(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	alice := &model.User{Base: model.Base{ID: uuid.New()}, Email: "alice@tacmed.com", Role: model.RoleUser}
	bob := &model.User{Base: model.Base{ID: uuid.New()}, Email: "bob@tacmed.com", Role: model.RoleUser}
	admin := &model.User{Base: model.Base{ID: uuid.New()}, Email: "admin@tacmed.com", Role: model.RoleAdmin}

	visits := &fakeVisitRepo{visits: []*model.Visit{
		userVisit(alice.ID, now, "A"),
		userVisit(alice.ID, now, "A"),
		userVisit(alice.ID, now, "B"),
		userVisit(bob.ID, now, "C"),
	}}
	users := &fakeUserRepo{users: []*model.User{alice, bob, admin}}

	svc := newTestService(visits, &fakeCustomerRepo{}, &fakeDoctorRepo{}, users, now)

	overview, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalUsers)
	assert.Equal(t, 4, overview.TotalVisits)
	require.Len(t, overview.TopPerformers, 2, "admins are excluded from the ranking")
	assert.Equal(t, "alice@tacmed.com", overview.TopPerformers[0].Email)
	assert.Equal(t, 3, overview.TopPerformers[0].VisitCount)
	assert.Equal(t, "bob@tacmed.com", overview.TopPerformers[1].Email)
}

func TestAdminUserStatsTopTen(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	var allUsers []*model.User
	var allVisits []*model.Visit
	for i := 0; i < 12; i++ {
		u := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleUser}
		allUsers = append(allUsers, u)
		for j := 0; j <= i; j++ {
			allVisits = append(allVisits, userVisit(u.ID, now, "X"))
		}
	}

	svc := newTestService(
		&fakeVisitRepo{visits: allVisits},
		&fakeCustomerRepo{},
		&fakeDoctorRepo{},
		&fakeUserRepo{users: allUsers},
		now,
	)

	ranked, err := svc.AdminUserStats(context.Background())
	require.NoError(t, err)

	assert.Len(t, ranked, 10)
	assert.Equal(t, 12, ranked[0].VisitCount)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].VisitCount, ranked[i].VisitCount)
	}
}

func TestTimeframes(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	u1, u2 := uuid.New(), uuid.New()

	visits := &fakeVisitRepo{visits: []*model.Visit{
		userVisit(u1, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), "A"),
		userVisit(u1, time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC), "A"),
		userVisit(u2, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), "B"),
	}}

	svc := newTestService(visits, &fakeCustomerRepo{}, &fakeDoctorRepo{}, &fakeUserRepo{}, now)

	buckets, err := svc.Timeframes(context.Background(), "month")
	require.NoError(t, err)
	require.Len(t, buckets, 6)

	// buckets run oldest to newest; February is the last one
	feb := buckets[5]
	assert.Equal(t, "February 2025", feb.Period)
	assert.Equal(t, 3, feb.TotalVisits)
	assert.Equal(t, 2, feb.UniqueUsers)
	assert.Equal(t, 1.5, feb.AvgVisitsPerUser)

	assert.Equal(t, 0, buckets[0].TotalVisits)
	assert.Equal(t, 0.0, buckets[0].AvgVisitsPerUser)
}
