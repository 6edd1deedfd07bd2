package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/directory"
	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthService coordinates credential verification, token issuance and
// employee registration against the external directory.
type AuthService struct {
	directory  directory.Directory
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, dir directory.Directory, logger *zap.Logger) *AuthService {
	return &AuthService{
		directory:  dir,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Verify checks a username/password pair against the directory record.
// The plaintext password lives only for the duration of this call and is
// never logged.
func (s *AuthService) Verify(ctx context.Context, username, password string) (domain.Identity, error) {
	record, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrNotFound):
			s.logger.Info("login attempt for unknown user", zap.String("username", username))
			return domain.Identity{}, apperrors.NewUserNotFound(username)
		case errors.Is(err, directory.ErrUnavailable):
			s.logger.Error("directory lookup failed", zap.Error(err))
			return domain.Identity{}, apperrors.NewDirectoryUnavailable(err)
		default:
			return domain.Identity{}, apperrors.NewInternalError(err)
		}
	}

	if err := auth.ComparePassword(record.PasswordHash, password); err != nil {
		s.logger.Info("bad credentials", zap.String("username", username))
		return domain.Identity{}, apperrors.NewBadCredentials()
	}
	return record.Identity(), nil
}

// Login verifies credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	identity, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.Issue(identity.Subject, identity.Role)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}

	s.logger.Info("login successful", zap.String("username", identity.Subject), zap.String("role", string(identity.Role)))
	return token, expiresAt, nil
}

// Register hashes the new employee's password and forwards the record to
// the directory. The route policy already restricts the surface to
// managers; the caller role is re-checked here in case the service is
// invoked outside the HTTP pipeline.
func (s *AuthService) Register(ctx context.Context, caller *domain.Identity, record *domain.EmployeeRecord, password string) (*domain.EmployeeRecord, error) {
	if caller == nil || caller.Role != domain.RoleManager {
		return nil, apperrors.NewForbidden("manager role required")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	record.PasswordHash = hash

	saved, err := s.directory.Register(ctx, record)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrNotFound):
			return nil, apperrors.NewNotFound("employee or shift", nil)
		case errors.Is(err, directory.ErrUnavailable):
			s.logger.Error("directory registration failed", zap.Error(err))
			return nil, apperrors.NewDirectoryUnavailable(err)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	s.logger.Info("employee registered",
		zap.String("username", saved.Username),
		zap.String("registered_by", caller.Subject))
	return saved, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
