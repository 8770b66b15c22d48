// Package service implements staff authentication: password sign-in issuing
// short-lived JWT access tokens, and first-run admin seeding.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inkstitch_backend/internal/auth/password"
	"inkstitch_backend/internal/auth/repository"
	"inkstitch_backend/internal/auth/transport"
	"inkstitch_backend/platform/apperr"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/logger"
)

const accessTokenType = "access"

// RoleAdmin may manage pricing policies, cost settings and imports.
const RoleAdmin = "admin"

// Service handles authentication operations.
type Service struct {
	repo repository.AuthRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// SignIn checks the credentials and returns a signed access token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, req transport.SignInRequest) (transport.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, "unknown email")
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, "wrong password")
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signJWT(user.ID, user.Roles)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.log.AuthEvent("sign_in", req.Email, true, "")
	return transport.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.GetAccessTokenTTL().Seconds()),
	}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// ChangePassword replaces the user's password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req transport.ChangePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// ListUsers returns all staff accounts.
func (s *Service) ListUsers(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	return out, nil
}

// SeedAdmin creates the configured admin account when the users table is
// empty. Without it a fresh install has no way to sign in.
func (s *Service) SeedAdmin(ctx context.Context) error {
	email := s.cfg.GetAdminEmail()
	plain := s.cfg.GetAdminPassword()
	if email == "" || plain == "" {
		return nil
	}

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	user, err := s.repo.CreateUser(ctx, email, hash, []string{RoleAdmin})
	if err != nil {
		return err
	}

	s.log.Info("seeded admin user", "email", user.Email)
	return nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Roles: user.Roles,
	}
}
