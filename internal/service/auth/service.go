package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	"github.com/tacmedikal/fieldtrack-api/pkg/auth"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/security"
)

// Service handles registration, login and token refresh. The admin role is
// assigned from a configured email allow-list at registration time, never
// from request input.
type Service struct {
	users       repository.UserRepository
	hasher      security.PasswordHasher
	tokens      auth.JWTService
	logger      *logger.Logger
	adminEmails map[string]bool
}

func NewService(
	users repository.UserRepository,
	hasher security.PasswordHasher,
	tokens auth.JWTService,
	log *logger.Logger,
	adminEmails []string,
) *Service {
	allowed := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		allowed[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return &Service{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		logger:      log,
		adminEmails: allowed,
	}
}

// Register creates a user account and issues a token pair.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, *model.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, apperrors.BadRequest("email is already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, apperrors.BadRequest("invalid password", err)
	}

	role := model.RoleUser
	if s.adminEmails[email] {
		role = model.RoleAdmin
	}

	now := time.Now()
	user := &model.User{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Company:      req.Company,
		Status:       model.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "role", string(role))

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login verifies credentials and issues a token pair. Inactive accounts are
// rejected with the same error as bad credentials.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if user.Status != model.UserStatusActive {
		return nil, nil, apperrors.Unauthorized(fmt.Errorf("account disabled"))
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record login time", "user_id", user.ID.String())
	}

	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.TokenResponse, error) {
	userID, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("unknown user"))
	}
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Unauthorized(fmt.Errorf("account disabled"))
	}

	return s.issueTokens(user)
}

// Logout records the sign-out. Tokens are stateless and expire on their own,
// so there is nothing to revoke server side.
func (s *Service) Logout(ctx context.Context, sess *model.Session) {
	s.logger.Info("user logged out", "user_id", sess.UserID.String())
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}
