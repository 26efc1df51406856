package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// FriendshipRepository defines the interface for friendship data operations.
// The unordered-pair contract is encoded here: every Between query matches
// (requester=A AND addressee=B) OR (requester=B AND addressee=A).
type FriendshipRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	// FindActiveBetween returns a PENDING or ACCEPTED record between the
	// unordered pair, or nil when none exists.
	FindActiveBetween(ctx context.Context, userA, userB string) (*models.Friendship, error)
	// FindAnyBetween returns whatever record exists between the unordered
	// pair regardless of status, or nil when none exists.
	FindAnyBetween(ctx context.Context, userA, userB string) (*models.Friendship, error)
	// FindBlockedBetween returns the BLOCKED record between the pair that was
	// initiated by blockedBy, or nil when none exists.
	FindBlockedBetween(ctx context.Context, userA, userB, blockedBy string) (*models.Friendship, error)
	FindByAddresseeAndStatus(ctx context.Context, addressee string, status models.FriendshipStatus) ([]models.Friendship, error)
	// FindTouchingByStatus returns all records with the given status where
	// username is either party.
	FindTouchingByStatus(ctx context.Context, username string, status models.FriendshipStatus) ([]models.Friendship, error)
	// UpdateStatus sets the status (and blocked-by marker) of a record and
	// reports whether a row matched.
	UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus, blockedBy *string) (bool, error)
	// DeleteAcceptedBetween removes all ACCEPTED records between the pair.
	DeleteAcceptedBetween(ctx context.Context, userA, userB string) error
	// DeleteAllTouching removes every record where username is either party.
	DeleteAllTouching(ctx context.Context, username string) error
}

type gormFriendshipRepository struct {
	db *gorm.DB
}

// NewGormFriendshipRepository creates a new FriendshipRepository backed by db.
func NewGormFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &gormFriendshipRepository{db: db}
}

const pairClause = "(requester_username = ? AND addressee_username = ?) OR (requester_username = ? AND addressee_username = ?)"

func (r *gormFriendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *gormFriendshipRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).First(&friendship, id).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *gormFriendshipRepository) FindActiveBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where(pairClause, userA, userB, userB, userA).
		Where("status IN ?", []models.FriendshipStatus{models.FriendshipStatusPending, models.FriendshipStatusAccepted}).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no active relationship is not an error here
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *gormFriendshipRepository) FindAnyBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where(pairClause, userA, userB, userB, userA).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *gormFriendshipRepository) FindBlockedBetween(ctx context.Context, userA, userB, blockedBy string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where(pairClause, userA, userB, userB, userA).
		Where("status = ?", models.FriendshipStatusBlocked).
		Where("blocked_by = ?", blockedBy).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *gormFriendshipRepository) FindByAddresseeAndStatus(ctx context.Context, addressee string, status models.FriendshipStatus) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Where("addressee_username = ? AND status = ?", addressee, status).
		Find(&friendships).Error
	return friendships, err
}

func (r *gormFriendshipRepository) FindTouchingByStatus(ctx context.Context, username string, status models.FriendshipStatus) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Where("requester_username = ? OR addressee_username = ?", username, username).
		Where("status = ?", status).
		Find(&friendships).Error
	return friendships, err
}

func (r *gormFriendshipRepository) UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus, blockedBy *string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "blocked_by": blockedBy})
	return res.RowsAffected > 0, res.Error
}

func (r *gormFriendshipRepository) DeleteAcceptedBetween(ctx context.Context, userA, userB string) error {
	return r.db.WithContext(ctx).
		Where(pairClause, userA, userB, userB, userA).
		Where("status = ?", models.FriendshipStatusAccepted).
		Delete(&models.Friendship{}).Error
}

func (r *gormFriendshipRepository) DeleteAllTouching(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).
		Where("requester_username = ? OR addressee_username = ?", username, username).
		Delete(&models.Friendship{}).Error
}
