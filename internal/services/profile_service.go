package services

import (
	"context"
	"errors"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

// ProfileInput carries the optional profile fields for creation. Only
// non-nil fields are applied; everything else keeps its store default.
type ProfileInput struct {
	Nickname  *string
	Bio       *string
	Gender    *models.Gender
	FirstName *string
	LastName  *string
	Language  *models.Language
}

// ProfileUpdate carries the mutable fields of a profile update. ID and avatar
// have no representation here: the generic update path can never touch them.
type ProfileUpdate struct {
	Nickname  *string
	Bio       *string
	Gender    *models.Gender
	FirstName *string
	LastName  *string
	Language  *models.Language
	Status    *models.ProfileStatus
}

// ProfileService owns the one-to-one profile per user, including avatar
// binary storage and retrieval.
type ProfileService interface {
	CreateProfile(ctx context.Context, username string, input ProfileInput) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (*models.Profile, error)
	DeleteProfile(ctx context.Context, username string) error
	// GetAvatar returns the stored avatar bytes along with the sniffed MIME
	// type.
	GetAvatar(ctx context.Context, username string) (data []byte, mime string, err error)
	UploadAvatar(ctx context.Context, username string, data []byte) error
	// UpdateStatus sets the presence state; used by the presence tracker.
	UpdateStatus(ctx context.Context, username string, status models.ProfileStatus) error
}

type profileService struct {
	profileRepo storage.ProfileRepository
	userRepo    storage.UserRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(profileRepo storage.ProfileRepository, userRepo storage.UserRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateProfile creates the profile for an existing user. A missing user is
// not-found; a second profile for the same username is a conflict.
func (s *profileService) CreateProfile(ctx context.Context, username string, input ProfileInput) (*models.Profile, error) {
	if username == "" {
		return nil, NewError(KindInvalidInput, "username is required")
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "user does not exist")
		}
		return nil, internalError("failed to load user", err)
	}

	profile := &models.Profile{
		Username: username,
		Status:   models.ProfileStatusOffline,
	}
	if input.Nickname != nil {
		profile.Nickname = *input.Nickname
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Gender != nil {
		profile.Gender = *input.Gender
	}
	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
	}
	if input.Language != nil {
		profile.Language = *input.Language
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewError(KindConflict, "profile already exists")
		}
		return nil, internalError("failed to create profile", err)
	}
	return profile, nil
}

// GetProfileByUsername loads the profile without its avatar blob; the avatar
// is only reachable through GetAvatar.
func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "profile not found")
		}
		return nil, internalError("failed to load profile", err)
	}
	return profile, nil
}

// UpdateProfile applies the provided fields and returns the updated profile.
func (s *profileService) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (*models.Profile, error) {
	fields := map[string]any{}
	if update.Nickname != nil {
		fields["nickname"] = *update.Nickname
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.Gender != nil {
		fields["gender"] = *update.Gender
	}
	if update.FirstName != nil {
		fields["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["last_name"] = *update.LastName
	}
	if update.Language != nil {
		fields["language"] = *update.Language
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, NewError(KindInvalidInput, "invalid presence status")
		}
		fields["status"] = *update.Status
	}

	if len(fields) > 0 {
		matched, err := s.profileRepo.UpdateFields(ctx, username, fields)
		if err != nil {
			return nil, internalError("failed to update profile", err)
		}
		if !matched {
			return nil, NewError(KindNotFound, "profile not found")
		}
	}

	return s.GetProfileByUsername(ctx, username)
}

// DeleteProfile removes the profile row.
func (s *profileService) DeleteProfile(ctx context.Context, username string) error {
	matched, err := s.profileRepo.Delete(ctx, username)
	if err != nil {
		return internalError("failed to delete profile", err)
	}
	if !matched {
		return NewError(KindNotFound, "profile not found")
	}
	return nil
}

// GetAvatar returns the avatar bytes and their sniffed MIME type. The
// detector falls back to application/octet-stream for unrecognized content.
func (s *profileService) GetAvatar(ctx context.Context, username string) ([]byte, string, error) {
	if username == "" {
		return nil, "", NewError(KindInvalidInput, "username is required")
	}

	data, err := s.profileRepo.GetAvatar(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", NewError(KindNotFound, "avatar not found")
		}
		return nil, "", internalError("failed to load avatar", err)
	}
	if len(data) == 0 {
		return nil, "", NewError(KindNotFound, "avatar not found")
	}

	return data, mimetype.Detect(data).String(), nil
}

// UploadAvatar persists the avatar bytes against an existing profile. Size
// and content-type constraints are the HTTP boundary's responsibility.
func (s *profileService) UploadAvatar(ctx context.Context, username string, data []byte) error {
	matched, err := s.profileRepo.UpdateFields(ctx, username, map[string]any{"avatar": data})
	if err != nil {
		return internalError("failed to store avatar", err)
	}
	if !matched {
		return NewError(KindNotFound, "profile not found")
	}
	return nil
}

// UpdateStatus sets the presence state for the username's profile.
func (s *profileService) UpdateStatus(ctx context.Context, username string, status models.ProfileStatus) error {
	if !status.Valid() {
		return NewError(KindInvalidInput, "invalid presence status")
	}

	matched, err := s.profileRepo.UpdateFields(ctx, username, map[string]any{"status": status})
	if err != nil {
		return internalError("failed to update presence status", err)
	}
	if !matched {
		return NewError(KindNotFound, "profile not found")
	}
	return nil
}
