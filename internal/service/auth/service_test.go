package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/pkg/auth"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/security"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error  { return nil }
func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return nil
}
func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (f *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) { return nil, nil }

func newTestService(repo *fakeUserRepo, adminEmails []string) *Service {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	tokens := auth.NewJWTService(auth.Config{Secret: "test-secret", RefreshSecret: "test-refresh"})
	return NewService(repo, security.NewBcryptHasher(4), tokens, log, adminEmails)
}

func registerReq(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Kaya",
	}
}

func TestRegisterAssignsUserRole(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), []string{"admin@tacmed.com"})

	user, tokens, err := svc.Register(context.Background(), registerReq("rep@tacmed.com"))
	require.NoError(t, err)

	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRegisterAllowListedEmailGetsAdmin(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), []string{"Admin@TacMed.com"})

	user, _, err := svc.Register(context.Background(), registerReq("admin@tacmed.com"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil)

	_, _, err := svc.Register(context.Background(), registerReq("rep@tacmed.com"))
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), registerReq("rep@tacmed.com"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil)

	_, _, err := svc.Register(context.Background(), registerReq("rep@tacmed.com"))
	require.NoError(t, err)

	user, tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "rep@tacmed.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "rep@tacmed.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil)

	_, _, err := svc.Register(context.Background(), registerReq("rep@tacmed.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "rep@tacmed.com",
		Password: "wrong",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil)

	user, _, err := svc.Register(context.Background(), registerReq("rep@tacmed.com"))
	require.NoError(t, err)
	user.Status = model.UserStatusInactive

	_, _, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "rep@tacmed.com",
		Password: "correct-horse",
	})
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil)

	_, tokens, err := svc.Register(context.Background(), registerReq("rep@tacmed.com"))
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), &model.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), nil)

	_, err := svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: "not-a-token"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}
