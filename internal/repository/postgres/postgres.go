package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/tacmedikal/fieldtrack-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

type customerRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

type visitRepository struct {
	db *sqlx.DB
}

type productRepository struct {
	db *sqlx.DB
}

type orderRepository struct {
	db *sqlx.DB
}

type snapshotRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewCustomerRepository(db *sqlx.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func NewProductRepository(db *sqlx.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func NewOrderRepository(db *sqlx.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func NewSnapshotRepository(db *sqlx.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}
