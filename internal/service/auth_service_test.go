package service

import (
	"context"
	"testing"

	"cms-admin/internal/models"
	"cms-admin/internal/repository"
	"cms-admin/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	repository.UserRepository

	byEmail map[string]struct {
		user *models.User
		hash string
	}
	created *models.User
}

func (f *fakeUsers) Create(ctx context.Context, email, name, role, passwordHash string) (*models.User, error) {
	f.created = &models.User{ID: "u-1", Email: email, Name: name, Role: role, Active: true}
	return f.created, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	e, ok := f.byEmail[email]
	if !ok {
		return nil, "", nil
	}
	return e.user, e.hash, nil
}

func seedUser(t *testing.T, email, password string, active bool) *fakeUsers {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &fakeUsers{byEmail: map[string]struct {
		user *models.User
		hash string
	}{
		email: {
			user: &models.User{ID: "u-1", Email: email, Role: "agent", Active: active},
			hash: hash,
		},
	}}
}

func TestLoginSuccess(t *testing.T) {
	users := seedUser(t, "ada@example.com", "hunter2!", true)
	svc := NewAuthService(users, "secret")

	tok, u, err := svc.Login(context.Background(), "ada@example.com", "hunter2!")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, "u-1", u.ID)

	claims, err := utils.ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "agent", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	users := seedUser(t, "ada@example.com", "hunter2!", true)
	svc := NewAuthService(users, "secret")

	_, _, err := svc.Login(context.Background(), "ada@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := &fakeUsers{}
	svc := NewAuthService(users, "secret")

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDeactivatedUser(t *testing.T) {
	users := seedUser(t, "ada@example.com", "hunter2!", false)
	svc := NewAuthService(users, "secret")

	_, _, err := svc.Login(context.Background(), "ada@example.com", "hunter2!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterForcesEndUserRole(t *testing.T) {
	users := &fakeUsers{}
	svc := NewAuthService(users, "secret")

	u, err := svc.Register(context.Background(), "ada@example.com", "Ada", "hunter2!", "admin")
	require.NoError(t, err)
	assert.Equal(t, "end_user", u.Role)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(&fakeUsers{}, "secret")

	_, err := svc.Register(context.Background(), "ada@example.com", "Ada", "abc", "")
	assert.Error(t, err)
}
