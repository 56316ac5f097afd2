package visit

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/service/calendarsync"
	"github.com/tacmedikal/fieldtrack-api/pkg/calendar"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/metrics"
	"github.com/tacmedikal/fieldtrack-api/pkg/prefs"
)

type fakeVisitRepo struct {
	visits      map[uuid.UUID]*model.Visit
	createErr   error
	setEventErr error
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: make(map[uuid.UUID]*model.Visit)}
}

func (f *fakeVisitRepo) Create(ctx context.Context, v *model.Visit) error {
	if f.createErr != nil {
		return f.createErr
	}
	stored := *v
	f.visits[v.ID] = &stored
	return nil
}

func (f *fakeVisitRepo) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	v, ok := f.visits[id]
	if !ok {
		return nil, errors.New("visit not found")
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVisitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.visits[id]; !ok {
		return errors.New("visit not found")
	}
	delete(f.visits, id)
	return nil
}

func (f *fakeVisitRepo) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	if f.setEventErr != nil {
		return f.setEventErr
	}
	v, ok := f.visits[id]
	if !ok {
		return errors.New("visit not found")
	}
	v.CalendarEventID = &eventID
	return nil
}

func (f *fakeVisitRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter *model.VisitFilter) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, v := range f.visits {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVisitRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Visit, error) {
	return f.ListByUser(ctx, userID, nil)
}

func (f *fakeVisitRepo) ListAll(ctx context.Context) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, v := range f.visits {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVisitRepo) ListRange(ctx context.Context, start, end time.Time) ([]*model.Visit, error) {
	return nil, nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *model.Customer) error { return nil }
func (f *fakeCustomerRepo) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, errors.New("customer not found")
	}
	return c, nil
}
func (f *fakeCustomerRepo) Update(ctx context.Context, c *model.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (f *fakeCustomerRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) ListAll(ctx context.Context) ([]*model.Customer, error) {
	return nil, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, errors.New("doctor not found")
	}
	return d, nil
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

type fixture struct {
	svc      *Service
	visits   *fakeVisitRepo
	provider *calendar.MemoryProvider
	cal      *calendarsync.Service
	sess     *model.Session
	customer *model.Customer
	doctor   *model.Doctor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sess := &model.Session{UserID: uuid.New(), Email: "rep@tacmed.com", Role: model.RoleUser}

	customer := &model.Customer{
		Base:    model.Base{ID: uuid.New()},
		UserID:  sess.UserID,
		Name:    "Acme Hospital",
		Type:    model.CustomerTypeHospital,
		Address: "Ataturk Cad. 12, Ankara",
	}
	doctor := &model.Doctor{
		Base:       model.Base{ID: uuid.New()},
		UserID:     sess.UserID,
		CustomerID: customer.ID,
		Name:       "Ayse Yilmaz",
		Specialty:  "Cardiology",
	}

	visits := newFakeVisitRepo()
	customers := &fakeCustomerRepo{customers: map[uuid.UUID]*model.Customer{customer.ID: customer}}
	doctors := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{doctor.ID: doctor}}

	provider := calendar.NewMemoryProvider()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test", "visit")
	cal := calendarsync.NewService(provider, prefs.NewMemoryStore(), log, m)

	return &fixture{
		svc:      NewService(visits, customers, doctors, cal, log, m),
		visits:   visits,
		provider: provider,
		cal:      cal,
		sess:     sess,
		customer: customer,
		doctor:   doctor,
	}
}

func (f *fixture) createRequest() *model.CreateVisitRequest {
	return &model.CreateVisitRequest{
		CustomerID: f.customer.ID,
		DoctorID:   f.doctor.ID,
		Purpose:    "Product demo",
		VisitDate:  time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateDenormalizesNames(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Create(context.Background(), f.sess, f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "Acme Hospital", result.Visit.CustomerName)
	assert.Equal(t, "Ayse Yilmaz", result.Visit.DoctorName)
	assert.Equal(t, "Cardiology", result.Visit.DoctorSpecialty)
	assert.Equal(t, model.VisitStatusCompleted, result.Visit.Status)
	assert.Empty(t, result.CalendarWarning)
}

func TestCreateWithSyncDisabledSkipsCalendar(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Create(context.Background(), f.sess, f.createRequest())
	require.NoError(t, err)

	assert.Nil(t, result.Visit.CalendarEventID)
	assert.Empty(t, result.CalendarWarning)
}

func TestCreateWithSyncEnabledLinksEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cal.Enable(ctx, f.sess)
	require.NoError(t, err)

	result, err := f.svc.Create(ctx, f.sess, f.createRequest())
	require.NoError(t, err)
	require.NotNil(t, result.Visit.CalendarEventID)

	event, err := f.provider.Event(*result.Visit.CalendarEventID)
	require.NoError(t, err)
	assert.Equal(t, "Visit: Acme Hospital", event.Title)
	assert.Equal(t, "Ataturk Cad. 12, Ankara", event.Location)
	assert.Equal(t, result.Visit.VisitDate, event.Start)
	assert.Equal(t, result.Visit.VisitDate.Add(time.Hour), event.End)

	stored, err := f.visits.Get(ctx, result.Visit.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CalendarEventID)
	assert.Equal(t, *result.Visit.CalendarEventID, *stored.CalendarEventID)
}

func TestCreateCalendarFailureIsNonFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cal.Enable(ctx, f.sess)
	require.NoError(t, err)

	// the provider starts rejecting writes after sync was enabled
	f.provider.EventErr = errors.New("provider unavailable")

	result, err := f.svc.Create(ctx, f.sess, f.createRequest())
	require.NoError(t, err, "a calendar failure must not fail the visit")

	assert.NotEmpty(t, result.CalendarWarning)
	_, err = f.visits.Get(ctx, result.Visit.ID)
	assert.NoError(t, err, "the visit stays persisted")
}

func TestCreateEventLinkFailureIsNonFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cal.Enable(ctx, f.sess)
	require.NoError(t, err)
	f.visits.setEventErr = errors.New("db down")

	result, err := f.svc.Create(ctx, f.sess, f.createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.CalendarWarning)
	assert.Nil(t, result.Visit.CalendarEventID)
}

func TestCreateRejectsForeignCustomer(t *testing.T) {
	f := newFixture(t)
	f.customer.UserID = uuid.New()

	_, err := f.svc.Create(context.Background(), f.sess, f.createRequest())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestCreateRejectsDoctorFromOtherCustomer(t *testing.T) {
	f := newFixture(t)
	f.doctor.CustomerID = uuid.New()

	_, err := f.svc.Create(context.Background(), f.sess, f.createRequest())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Create(ctx, f.sess, f.createRequest())
	require.NoError(t, err)

	other := &model.Session{UserID: uuid.New(), Role: model.RoleUser}
	_, err = f.svc.Get(ctx, other, result.Visit.ID)
	require.Error(t, err)

	admin := &model.Session{UserID: uuid.New(), Role: model.RoleAdmin}
	got, err := f.svc.Get(ctx, admin, result.Visit.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Visit.ID, got.ID)
}

func TestDeleteRemovesVisitAndEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cal.Enable(ctx, f.sess)
	require.NoError(t, err)

	result, err := f.svc.Create(ctx, f.sess, f.createRequest())
	require.NoError(t, err)
	require.NotNil(t, result.Visit.CalendarEventID)
	eventID := *result.Visit.CalendarEventID

	require.NoError(t, f.svc.Delete(ctx, f.sess, result.Visit.ID))

	_, err = f.visits.Get(ctx, result.Visit.ID)
	assert.Error(t, err)
	_, err = f.provider.Event(eventID)
	assert.Error(t, err)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Create(ctx, f.sess, f.createRequest())
	require.NoError(t, err)

	other := &model.Session{UserID: uuid.New(), Role: model.RoleUser}
	err = f.svc.Delete(ctx, other, result.Visit.ID)
	require.Error(t, err)

	_, err = f.visits.Get(ctx, result.Visit.ID)
	assert.NoError(t, err)
}

func TestListAllRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListAll(context.Background(), f.sess)
	require.Error(t, err)

	admin := &model.Session{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = f.svc.ListAll(context.Background(), admin)
	assert.NoError(t, err)
}
