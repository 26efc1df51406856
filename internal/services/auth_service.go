package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-go/internal/auth"
	"social-go/internal/config"
	"social-go/internal/models"
	"social-go/internal/storage"
)

// AuthService handles the login orchestration: credential check, the
// two-factor gate, and session token issuance.
type AuthService interface {
	// Login verifies username/password and, for 2FA-enabled accounts, the
	// one-time code. On success it returns a signed session token and the
	// sanitized user record.
	Login(ctx context.Context, username, password, totpCode string) (token string, user *models.User, err error)
}

type authService struct {
	userRepo storage.UserRepository
	totp     *auth.TOTPProvider
	authCfg  config.AuthConfig
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo storage.UserRepository, totp *auth.TOTPProvider, authCfg config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		totp:     totp,
		authCfg:  authCfg,
		logger:   logger,
	}
}

// Login implements the login flow. Unknown usernames and wrong passwords fail
// with the same coarse message so callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, username, password, totpCode string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, NewError(KindForbidden, "invalid username or password")
		}
		return "", nil, internalError("failed to load user", err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, NewError(KindForbidden, "invalid username or password")
	}

	if user.TwoFactorEnabled {
		if totpCode == "" {
			return "", nil, NewError(KindUnauthorized, "2FA token required")
		}
		if user.TwoFactorSecret == "" || !s.totp.VerifyCode(user.TwoFactorSecret, totpCode) {
			return "", nil, NewError(KindUnauthorized, "invalid 2FA token")
		}
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.authCfg)
	if err != nil {
		return "", nil, internalError("failed to issue session token", err)
	}

	user.Sanitize()
	return token, user, nil
}
