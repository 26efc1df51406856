package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-go/internal/auth"
	"social-go/internal/models"
	"social-go/internal/storage"
)

// UserService owns the account lifecycle: creation against the password
// policy, lookup, update, disable, the transactional delete cascade, and the
// two-factor enrollment flow.
type UserService interface {
	CreateUser(ctx context.Context, username, password, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, username string, email, password *string) error
	DisableUser(ctx context.Context, username string) error
	DeleteUser(ctx context.Context, username string) error
	Generate2FASecret(ctx context.Context, username string) (otpauthURL string, err error)
	Enable2FA(ctx context.Context, username, code string) error
	Disable2FA(ctx context.Context, username string) error
	Verify2FA(ctx context.Context, username, code string) (bool, error)
}

type userService struct {
	db       *gorm.DB // transaction support for the delete cascade
	userRepo storage.UserRepository
	policy   *auth.PasswordPolicy
	totp     *auth.TOTPProvider
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(db *gorm.DB, userRepo storage.UserRepository, policy *auth.PasswordPolicy, totp *auth.TOTPProvider, logger *zap.Logger) UserService {
	return &userService{
		db:       db,
		userRepo: userRepo,
		policy:   policy,
		totp:     totp,
		logger:   logger,
	}
}

// CreateUser validates the password against the policy, hashes it, and
// persists the account. A failed policy check persists nothing; a duplicate
// username surfaces as a conflict. The returned record is sanitized.
func (s *userService) CreateUser(ctx context.Context, username, password, email string) (*models.User, error) {
	if reasons := s.policy.Validate(password); len(reasons) > 0 {
		return nil, NewErrorWithDetail(KindInvalidInput, "password does not meet security requirements", reasons)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewError(KindConflict, "username already exists")
		}
		return nil, internalError("failed to create user", err)
	}

	user.Sanitize()
	return user, nil
}

// FindUserByUsername returns the sanitized account record.
func (s *userService) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "user not found")
		}
		return nil, internalError("failed to load user", err)
	}
	user.Sanitize()
	return user, nil
}

// GetAllUsers returns all accounts with credential material stripped.
func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, internalError("failed to list users", err)
	}
	for i := range users {
		users[i].Sanitize()
	}
	return users, nil
}

// UpdateUser applies the provided email and/or password. A new password is
// re-hashed before persisting.
func (s *userService) UpdateUser(ctx context.Context, username string, email, password *string) error {
	fields := map[string]any{}
	if email != nil {
		fields["email"] = *email
	}
	if password != nil {
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return internalError("failed to hash password", err)
		}
		fields["password_hash"] = hash
	}
	if len(fields) == 0 {
		return NewError(KindInvalidInput, "nothing to update")
	}

	matched, err := s.userRepo.UpdateFields(ctx, username, fields)
	if err != nil {
		return internalError("failed to update user", err)
	}
	if !matched {
		return NewError(KindNotFound, "user not found")
	}
	return nil
}

// DisableUser sets active=false without touching anything else.
func (s *userService) DisableUser(ctx context.Context, username string) error {
	matched, err := s.userRepo.UpdateFields(ctx, username, map[string]any{"active": false})
	if err != nil {
		return internalError("failed to disable user", err)
	}
	if !matched {
		return NewError(KindNotFound, "user not found")
	}
	return nil
}

// DeleteUser removes the account and everything hanging off it (all
// friendship rows touching the username, the profile row, then the user row)
// as one transaction. Partial application is never observable.
func (s *userService) DeleteUser(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUserRepo := storage.NewGormUserRepository(tx)
		txFriendshipRepo := storage.NewGormFriendshipRepository(tx)
		txProfileRepo := storage.NewGormProfileRepository(tx)

		if _, err := txUserRepo.GetByUsername(ctx, username); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(KindNotFound, "user not found")
			}
			return internalError("failed to load user", err)
		}

		if err := txFriendshipRepo.DeleteAllTouching(ctx, username); err != nil {
			return internalError("failed to delete friendships", err)
		}
		if _, err := txProfileRepo.Delete(ctx, username); err != nil {
			return internalError("failed to delete profile", err)
		}
		if _, err := txUserRepo.Delete(ctx, username); err != nil {
			return internalError("failed to delete user", err)
		}
		return nil
	})
}

// Generate2FASecret creates a fresh shared secret and provisioning URL for
// the account. The secret is stored immediately but stays inert until
// Enable2FA verifies a code against it.
func (s *userService) Generate2FASecret(ctx context.Context, username string) (string, error) {
	secret, url, err := s.totp.GenerateSecret(username)
	if err != nil {
		return "", internalError("failed to generate 2FA secret", err)
	}

	matched, err := s.userRepo.UpdateFields(ctx, username, map[string]any{
		"two_factor_secret":  secret,
		"two_factor_enabled": false,
	})
	if err != nil {
		return "", internalError("failed to store 2FA secret", err)
	}
	if !matched {
		return "", NewError(KindNotFound, "user not found")
	}
	return url, nil
}

// Enable2FA verifies the submitted code against the previously generated
// secret and, on success, flips the enabled flag.
func (s *userService) Enable2FA(ctx context.Context, username, code string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil || user.TwoFactorSecret == "" {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return internalError("failed to load user", err)
		}
		return NewError(KindInvalidInput, "2FA not initialized")
	}

	if !s.totp.VerifyCode(user.TwoFactorSecret, code) {
		return NewError(KindInvalidInput, "invalid 2FA token")
	}

	matched, err := s.userRepo.UpdateFields(ctx, username, map[string]any{"two_factor_enabled": true})
	if err != nil {
		return internalError("failed to enable 2FA", err)
	}
	if !matched {
		return NewError(KindNotFound, "user not found")
	}
	return nil
}

// Disable2FA clears both the enabled flag and the stored secret
// unconditionally.
func (s *userService) Disable2FA(ctx context.Context, username string) error {
	matched, err := s.userRepo.UpdateFields(ctx, username, map[string]any{
		"two_factor_enabled": false,
		"two_factor_secret":  "",
	})
	if err != nil {
		return internalError("failed to disable 2FA", err)
	}
	if !matched {
		return NewError(KindNotFound, "user not found")
	}
	return nil
}

// Verify2FA checks a login code. A user without 2FA enabled (or without a
// stored secret) verifies as false rather than erroring.
func (s *userService) Verify2FA(ctx context.Context, username, code string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, internalError("failed to load user", err)
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == "" {
		return false, nil
	}
	return s.totp.VerifyCode(user.TwoFactorSecret, code), nil
}
