package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	"github.com/tacmedikal/fieldtrack-api/internal/service/calendarsync"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/metrics"
)

// Service handles visit logging. Calendar materialization is best effort:
// a visit is always persisted first, and a calendar failure surfaces as a
// warning on the response, never as a rollback.
type Service struct {
	visits    repository.VisitRepository
	customers repository.CustomerRepository
	doctors   repository.DoctorRepository
	calendars *calendarsync.Service
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(
	visits repository.VisitRepository,
	customers repository.CustomerRepository,
	doctors repository.DoctorRepository,
	calendars *calendarsync.Service,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		visits:    visits,
		customers: customers,
		doctors:   doctors,
		calendars: calendars,
		logger:    log,
		metrics:   m,
	}
}

// Create logs a visit. Customer and doctor names are denormalized onto the
// visit at creation time.
func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateVisitRequest) (*model.CreateVisitResult, error) {
	customer, err := s.customers.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, apperrors.NotFound("customer", err)
	}
	if customer.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("customer belongs to another user", nil)
	}

	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	if doctor.CustomerID != customer.ID {
		return nil, apperrors.BadRequest("doctor does not work at this customer", nil)
	}

	status := req.Status
	if status == "" {
		status = model.VisitStatusCompleted
	}

	now := time.Now()
	visit := &model.Visit{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:          sess.UserID,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		DoctorSpecialty: doctor.Specialty,
		Purpose:         req.Purpose,
		Notes:           req.Notes,
		VisitDate:       req.VisitDate,
		Status:          status,
	}

	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}
	s.metrics.VisitsCreated.Inc()

	result := &model.CreateVisitResult{Visit: visit}

	eventID, err := s.calendars.CreateEvent(ctx, sess, visit, customer.Address)
	if err != nil {
		s.logger.Warn("calendar event creation failed", "visit_id", visit.ID.String(), "error", err.Error())
		result.CalendarWarning = "visit saved, but the calendar event could not be created"
		return result, nil
	}
	if eventID == "" {
		return result, nil
	}

	if err := s.visits.SetCalendarEventID(ctx, visit.ID, eventID); err != nil {
		s.logger.Warn("failed to record calendar event id", "visit_id", visit.ID.String(), "error", err.Error())
		result.CalendarWarning = "visit saved, but the calendar event could not be linked"
		return result, nil
	}
	visit.CalendarEventID = &eventID

	return result, nil
}

// Get returns a visit. Non-admins can only read their own.
func (s *Service) Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.Visit, error) {
	visit, err := s.visits.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}
	if visit.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("visit belongs to another user", nil)
	}
	return visit, nil
}

// List returns the caller's visits, optionally filtered.
func (s *Service) List(ctx context.Context, sess *model.Session, filter *model.VisitFilter) ([]*model.Visit, error) {
	visits, err := s.visits.ListByUser(ctx, sess.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// ListAll returns every visit. Admin only.
func (s *Service) ListAll(ctx context.Context, sess *model.Session) ([]*model.Visit, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}
	visits, err := s.visits.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// Delete removes a visit and, best effort, its calendar event.
func (s *Service) Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	visit, err := s.visits.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("visit", err)
	}
	if visit.UserID != sess.UserID && !sess.IsAdmin() {
		return apperrors.Forbidden("visit belongs to another user", nil)
	}

	if visit.CalendarEventID != nil {
		if err := s.calendars.DeleteEvent(ctx, sess, *visit.CalendarEventID); err != nil {
			s.logger.Warn("calendar event removal failed", "visit_id", visit.ID.String(), "error", err.Error())
		}
	}

	if err := s.visits.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	s.metrics.VisitsDeleted.Inc()
	return nil
}
