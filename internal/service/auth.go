package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/pkg/hash"
	"github.com/avdeenkov/marketplace/pkg/logging"
	"github.com/avdeenkov/marketplace/pkg/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func (s *AuthService) Register(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() || role == models.RoleAdmin {
		// Admin accounts are provisioned out of band.
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}

	taken, err := s.Repo.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if user.IsBlocked {
		return nil, fmt.Errorf("%w: account blocked", ErrForbidden)
	}

	access, err := tokens.NewAccessToken(user.ID, string(user.Role), time.Now().Add(accessTTL), s.AccessSecret)
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().Add(refreshTTL)
	refresh, err := tokens.NewRefreshToken(user.ID, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refresh, user.ID, refreshExp); err != nil {
		return nil, err
	}

	l.Info("login", "user_id", user.ID)
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	stored, err := s.Repo.GetRefreshToken(ctx, refreshToken)
	if err != nil || stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token revoked or expired", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}
	if user.IsBlocked {
		return nil, fmt.Errorf("%w: account blocked", ErrForbidden)
	}
	if claims.Subject != user.ID.String() {
		return nil, fmt.Errorf("%w: token subject mismatch", ErrUnauthorized)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	access, err := tokens.NewAccessToken(user.ID, string(user.Role), time.Now().Add(accessTTL), s.AccessSecret)
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().Add(refreshTTL)
	refresh, err := tokens.NewRefreshToken(user.ID, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refresh, user.ID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown refresh token", ErrNotFound)
		}
		return err
	}
	return nil
}
