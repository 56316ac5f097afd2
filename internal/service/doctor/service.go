package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
)

// Service manages doctors within the caller's customer portfolio.
type Service struct {
	doctors   repository.DoctorRepository
	customers repository.CustomerRepository
}

func NewService(doctors repository.DoctorRepository, customers repository.CustomerRepository) *Service {
	return &Service{doctors: doctors, customers: customers}
}

// Create adds a doctor under one of the caller's customers.
func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	customer, err := s.customers.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, apperrors.NotFound("customer", err)
	}
	if customer.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("customer belongs to another user", nil)
	}

	now := time.Now()
	doctor := &model.Doctor{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:     sess.UserID,
		CustomerID: customer.ID,
		Name:       req.Name,
		Title:      req.Title,
		Specialty:  req.Specialty,
		Phone:      req.Phone,
		Email:      req.Email,
		Status:     model.CustomerStatusActive,
		Notes:      req.Notes,
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	if doctor.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("doctor belongs to another user", nil)
	}
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Title != nil {
		doctor.Title = *req.Title
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Status != nil {
		doctor.Status = *req.Status
	}
	if req.Notes != nil {
		doctor.Notes = *req.Notes
	}

	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	if err := s.doctors.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, sess *model.Session) ([]*model.Doctor, error) {
	doctors, err := s.doctors.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// ListByCustomer returns the doctors working at one of the caller's customers.
func (s *Service) ListByCustomer(ctx context.Context, sess *model.Session, customerID uuid.UUID) ([]*model.Doctor, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, apperrors.NotFound("customer", err)
	}
	if customer.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("customer belongs to another user", nil)
	}

	doctors, err := s.doctors.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
