package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context) ([]*model.User, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Customer, error)
	ListAll(ctx context.Context) ([]*model.Customer, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Doctor, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Doctor, error)
	ListAll(ctx context.Context) ([]*model.Doctor, error)
}

type VisitRepository interface {
	Create(ctx context.Context, visit *model.Visit) error
	Get(ctx context.Context, id uuid.UUID) (*model.Visit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter *model.VisitFilter) ([]*model.Visit, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Visit, error)
	ListAll(ctx context.Context) ([]*model.Visit, error)
	ListRange(ctx context.Context, start, end time.Time) ([]*model.Visit, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string, activeOnly bool) ([]*model.Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter *model.OrderFilter) ([]*model.Order, error)
	ListAll(ctx context.Context, filter *model.OrderFilter) ([]*model.Order, error)
}

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.ReportSnapshot) error
	ListByPeriod(ctx context.Context, period model.SnapshotPeriod, limit int) ([]*model.ReportSnapshot, error)
}
