// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"speedo-transfer/internal/repository"
	"speedo-transfer/internal/session"
	"speedo-transfer/internal/util"
)

// AuthService opens and closes sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	dbExecutor repository.DBExecutor
	sessions   session.Store
	userRepo   repository.UserRepository
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAuthService creates a new instance of AuthService. Sessions expire after ttl.
func NewAuthService(
	dbExecutor repository.DBExecutor,
	sessions session.Store,
	userRepo repository.UserRepository,
	ttl time.Duration,
	logger *slog.Logger,
) AuthService {
	return &authService{
		dbExecutor: dbExecutor,
		sessions:   sessions,
		userRepo:   userRepo,
		ttl:        ttl,
		logger:     logger,
	}
}

// Login checks the password against the stored bcrypt hash and issues an opaque token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", util.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			s.logger.Warn("login with unknown email", "email", email)
			return "", util.ErrUnauthorized
		}
		return "", persistenceFailure(s.logger, "login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login with incorrect password", "user_id", user.ID)
		return "", util.ErrUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Issue(ctx, token, user.ID, s.ttl); err != nil {
		return "", persistenceFailure(s.logger, "login: issue session", err)
	}
	s.logger.Info("session issued", "user_id", user.ID)
	return token, nil
}

// Logout revokes the session behind token.
func (s *authService) Logout(ctx context.Context, token string) error {
	token = session.StripScheme(token)
	if token == "" {
		return util.ErrUnauthorized
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return persistenceFailure(s.logger, "logout", err)
	}
	return nil
}
