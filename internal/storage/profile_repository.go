package storage

import (
	"context"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	// GetByUsername loads the profile without its avatar blob.
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	// GetAvatar returns only the stored avatar bytes for the username.
	GetAvatar(ctx context.Context, username string) ([]byte, error)
	// UpdateFields applies a partial column update and reports whether a row
	// matched.
	UpdateFields(ctx context.Context, username string, fields map[string]any) (bool, error)
	// Delete removes the profile row and reports whether a row matched.
	Delete(ctx context.Context, username string) (bool, error)
}

type gormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new ProfileRepository backed by db.
func NewGormProfileRepository(db *gorm.DB) ProfileRepository {
	return &gormProfileRepository{db: db}
}

func (r *gormProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *gormProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Omit("avatar").
		Where("username = ?", username).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormProfileRepository) GetAvatar(ctx context.Context, username string) ([]byte, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Select("avatar").
		Where("username = ?", username).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return profile.Avatar, nil
}

func (r *gormProfileRepository) UpdateFields(ctx context.Context, username string, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("username = ?", username).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *gormProfileRepository) Delete(ctx context.Context, username string) (bool, error) {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&models.Profile{})
	return res.RowsAffected > 0, res.Error
}
