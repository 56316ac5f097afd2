package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
)

// Service manages the caller's customer portfolio.
type Service struct {
	customers repository.CustomerRepository
}

func NewService(customers repository.CustomerRepository) *Service {
	return &Service{customers: customers}
}

func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateCustomerRequest) (*model.Customer, error) {
	now := time.Now()
	customer := &model.Customer{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        sess.UserID,
		Name:          req.Name,
		Type:          req.Type,
		Address:       req.Address,
		City:          req.City,
		Phone:         req.Phone,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		Status:        model.CustomerStatusActive,
		Notes:         req.Notes,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("customer", err)
	}
	if customer.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("customer belongs to another user", nil)
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateCustomerRequest) (*model.Customer, error) {
	customer, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Type != nil {
		customer.Type = *req.Type
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.ContactPerson != nil {
		customer.ContactPerson = *req.ContactPerson
	}
	if req.Status != nil {
		customer.Status = *req.Status
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *Service) Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, sess *model.Session) ([]*model.Customer, error) {
	customers, err := s.customers.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// ListAll returns every customer. Admin only.
func (s *Service) ListAll(ctx context.Context, sess *model.Session) ([]*model.Customer, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}
	customers, err := s.customers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
