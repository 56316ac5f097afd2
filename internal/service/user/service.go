package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
)

// Service manages user profiles and admin user management.
type Service struct {
	users  repository.UserRepository
	logger *logger.Logger
}

func NewService(users repository.UserRepository, log *logger.Logger) *Service {
	return &Service{users: users, logger: log}
}

// Profile returns the caller's own profile.
func (s *Service) Profile(ctx context.Context, sess *model.Session) (*model.User, error) {
	user, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return user, nil
}

// UpdateProfile applies partial updates to the caller's profile.
func (s *Service) UpdateProfile(ctx context.Context, sess *model.Session, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Company != nil {
		user.Company = *req.Company
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// List returns every user. Admin only.
func (s *Service) List(ctx context.Context, sess *model.Session) ([]*model.User, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangeRole promotes or demotes a user. Admins cannot demote themselves,
// which keeps at least one admin reachable.
func (s *Service) ChangeRole(ctx context.Context, sess *model.Session, id uuid.UUID, role model.Role) error {
	if !sess.IsAdmin() {
		return apperrors.Forbidden("admin access required", nil)
	}
	if id == sess.UserID {
		return apperrors.BadRequest("cannot change your own role", nil)
	}
	if !model.ValidRole(role) {
		return apperrors.BadRequest("unknown role", nil)
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return fmt.Errorf("failed to change role: %w", err)
	}
	s.logger.Info("user role changed", "user_id", id.String(), "role", string(role))
	return nil
}

// SetStatus activates or deactivates an account. Admin only.
func (s *Service) SetStatus(ctx context.Context, sess *model.Session, id uuid.UUID, status string) error {
	if !sess.IsAdmin() {
		return apperrors.Forbidden("admin access required", nil)
	}
	if id == sess.UserID {
		return apperrors.BadRequest("cannot change your own status", nil)
	}
	if status != model.UserStatusActive && status != model.UserStatusInactive {
		return apperrors.BadRequest("unknown status", nil)
	}

	if err := s.users.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}
