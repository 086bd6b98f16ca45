package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avdeenkov/marketplace/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.Auth.Register(ctx, "alice", "alice@example.com", "s3cret", models.RoleCustomer)
	require.NoError(t, err)
	require.Equal(t, models.RoleCustomer, user.Role)

	res, err := env.Auth.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "alice", "a@example.com", "pw", models.RoleCustomer)
	require.NoError(t, err)

	_, err = env.Auth.Register(ctx, "alice", "b@example.com", "pw", models.RoleCustomer)
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Auth.Register(context.Background(), "mallory", "m@example.com", "pw", models.RoleAdmin)
	require.ErrorIs(t, err, ErrValidation)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "alice", "a@example.com", "right", models.RoleCustomer)
	require.NoError(t, err)

	_, err = env.Auth.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.Auth.Login(ctx, "nobody", "pw")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginBlockedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.Auth.Register(ctx, "alice", "a@example.com", "pw", models.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, env.DB.Model(&models.User{}).
		Where("id = ?", user.ID).Update("is_blocked", true).Error)

	_, err = env.Auth.Login(ctx, "alice", "pw")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "alice", "a@example.com", "pw", models.RoleCustomer)
	require.NoError(t, err)
	login, err := env.Auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	refreshed, err := env.Auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is revoked after rotation.
	_, err = env.Auth.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "alice", "a@example.com", "pw", models.RoleCustomer)
	require.NoError(t, err)
	login, err := env.Auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	require.NoError(t, env.Auth.Logout(ctx, login.RefreshToken))

	_, err = env.Auth.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}
