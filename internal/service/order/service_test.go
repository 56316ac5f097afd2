package order

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *model.Order) error {
	stored := *o
	f.orders[o.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter *model.OrderFilter) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListAll(ctx context.Context, filter *model.OrderFilter) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return p, nil
}
func (f *fakeProductRepo) Update(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (f *fakeProductRepo) List(ctx context.Context, category string, activeOnly bool) ([]*model.Product, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, errors.New("user not found")
}
func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return nil
}
func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (f *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) { return nil, nil }

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.sent = append(r.sent, subject)
	return nil
}

type fixture struct {
	svc     *Service
	orders  *fakeOrderRepo
	mail    *recordingSender
	sess    *model.Session
	admin   *model.Session
	gauze   *model.Product
	splints *model.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sess := &model.Session{UserID: uuid.New(), Email: "rep@tacmed.com", Role: model.RoleUser}
	admin := &model.Session{UserID: uuid.New(), Email: "admin@tacmed.com", Role: model.RoleAdmin}

	gauze := &model.Product{Base: model.Base{ID: uuid.New()}, Name: "Gauze Pack", Price: 12.5, Active: true}
	splints := &model.Product{Base: model.Base{ID: uuid.New()}, Name: "Splint Set", Price: 40, Active: true}

	orders := newFakeOrderRepo()
	products := &fakeProductRepo{products: map[uuid.UUID]*model.Product{
		gauze.ID:   gauze,
		splints.ID: splints,
	}}
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		sess.UserID: {Base: model.Base{ID: sess.UserID}, Email: sess.Email, FirstName: "Ada"},
	}}
	mail := &recordingSender{}
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})

	return &fixture{
		svc:     NewService(orders, products, users, mail, log),
		orders:  orders,
		mail:    mail,
		sess:    sess,
		admin:   admin,
		gauze:   gauze,
		splints: splints,
	}
}

func TestCreateSnapshotsPrices(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.Create(context.Background(), f.sess, &model.CreateOrderRequest{
		Items: []model.CreateOrderItem{
			{ProductID: f.gauze.ID, Quantity: 2},
			{ProductID: f.splints.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 65.0, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Gauze Pack", order.Items[0].ProductName)
	assert.Equal(t, 12.5, order.Items[0].UnitPrice)

	// a later price change does not touch the placed order
	f.gauze.Price = 99
	stored, err := f.orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, stored.Items[0].UnitPrice)
}

func TestCreateRejectsInactiveProduct(t *testing.T) {
	f := newFixture(t)
	f.gauze.Active = false

	_, err := f.svc.Create(context.Background(), f.sess, &model.CreateOrderRequest{
		Items: []model.CreateOrderItem{{ProductID: f.gauze.ID, Quantity: 1}},
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.sess, &model.CreateOrderRequest{
		Items: []model.CreateOrderItem{{ProductID: uuid.New(), Quantity: 1}},
	})
	require.Error(t, err)
}

func TestUpdateStatusPipeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.sess, &model.CreateOrderRequest{
		Items: []model.CreateOrderItem{{ProductID: f.gauze.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	for _, status := range []model.OrderStatus{
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
	} {
		updated, err := f.svc.UpdateStatus(ctx, f.admin, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	assert.Len(t, f.mail.sent, 3, "each transition notifies the buyer")
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.sess, &model.CreateOrderRequest{
		Items: []model.CreateOrderItem{{ProductID: f.gauze.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.admin, order.ID, model.OrderStatusDelivered)
	require.Error(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.admin, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	// cancelled is terminal
	_, err = f.svc.UpdateStatus(ctx, f.admin, order.ID, model.OrderStatusProcessing)
	require.Error(t, err)
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.sess, &model.CreateOrderRequest{
		Items: []model.CreateOrderItem{{ProductID: f.gauze.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.sess, order.ID, model.OrderStatusProcessing)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.sess, &model.CreateOrderRequest{
		Items: []model.CreateOrderItem{{ProductID: f.gauze.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	other := &model.Session{UserID: uuid.New(), Role: model.RoleUser}
	_, err = f.svc.Get(ctx, other, order.ID)
	require.Error(t, err)

	got, err := f.svc.Get(ctx, f.admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}
