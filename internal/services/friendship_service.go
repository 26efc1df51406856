package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-go/internal/kafka"
	"social-go/internal/models"
	"social-go/internal/storage"
)

// FriendshipService enforces the friendship state machine on top of the
// friendship store. All pair operations treat {requester, addressee} as an
// unordered pair.
type FriendshipService interface {
	SendFriendRequest(ctx context.Context, from, to string) error
	GetFriendRequests(ctx context.Context, username string) ([]*models.FriendRequestWithRequester, error)
	RespondToFriendRequest(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error
	ListFriends(ctx context.Context, username string) ([]models.FriendInfo, error)
	RemoveFriend(ctx context.Context, userA, userB string) error
	BlockUser(ctx context.Context, blocker, blocked string) error
	UnblockUser(ctx context.Context, unblocker, blocked string) error
	GetFriendshipStatus(ctx context.Context, userA, userB string) (*models.FriendshipStatusInfo, error)
	GetBlockedUsers(ctx context.Context, username string) ([]string, error)
}

// FriendshipEvent is the advisory notification published after a successful
// state change. The record in the store is always the source of truth; events
// are best-effort fan-out for downstream consumers.
type FriendshipEvent struct {
	Type              string                  `json:"type"` // requested, responded, removed, blocked, unblocked
	RequesterUsername string                  `json:"requesterUsername"`
	AddresseeUsername string                  `json:"addresseeUsername"`
	Status            models.FriendshipStatus `json:"status,omitempty"`
	Timestamp         time.Time               `json:"timestamp"`
}

type friendshipService struct {
	friendshipRepo storage.FriendshipRepository
	userRepo       storage.UserRepository
	profileRepo    storage.ProfileRepository
	producer       kafka.MessageProducer // nil disables event publishing
	eventTopic     string
	logger         *zap.Logger
}

// NewFriendshipService creates a new FriendshipService. producer may be nil,
// in which case no events are published.
func NewFriendshipService(
	friendshipRepo storage.FriendshipRepository,
	userRepo storage.UserRepository,
	profileRepo storage.ProfileRepository,
	producer kafka.MessageProducer,
	eventTopic string,
	logger *zap.Logger,
) FriendshipService {
	return &friendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		producer:       producer,
		eventTopic:     eventTopic,
		logger:         logger,
	}
}

// SendFriendRequest creates a PENDING record from `from` to `to`. A
// self-request is rejected outright; an existing PENDING or ACCEPTED record
// between the pair (in either direction) is a conflict. The existence check is
// advisory: a concurrent duplicate insert is an accepted race.
func (s *friendshipService) SendFriendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return NewError(KindInvalidInput, "you can't add yourself")
	}

	existing, err := s.friendshipRepo.FindActiveBetween(ctx, from, to)
	if err != nil {
		return internalError("failed to check existing friendship", err)
	}
	if existing != nil {
		return NewError(KindConflict, "friendship already exists or pending")
	}

	friendship := &models.Friendship{
		RequesterUsername: from,
		AddresseeUsername: to,
		Status:            models.FriendshipStatusPending,
	}
	if err := s.friendshipRepo.Create(ctx, friendship); err != nil {
		return internalError("failed to create friend request", err)
	}

	s.publishEvent(ctx, "requested", from, to, models.FriendshipStatusPending)
	return nil
}

// GetFriendRequests returns all PENDING records addressed to username, each
// enriched with the requester's public identity.
func (s *friendshipService) GetFriendRequests(ctx context.Context, username string) ([]*models.FriendRequestWithRequester, error) {
	pending, err := s.friendshipRepo.FindByAddresseeAndStatus(ctx, username, models.FriendshipStatusPending)
	if err != nil {
		return nil, internalError("failed to fetch friend requests", err)
	}

	requests := make([]*models.FriendRequestWithRequester, 0, len(pending))
	for _, f := range pending {
		requester, err := s.userRepo.GetByUsername(ctx, f.RequesterUsername)
		if err != nil {
			s.logger.Warn("failed to resolve requester for friend request",
				zap.Uint("friendshipID", f.ID),
				zap.String("requester", f.RequesterUsername),
				zap.Error(err))
			continue
		}
		requests = append(requests, &models.FriendRequestWithRequester{
			Friendship: f,
			Requester:  requester.BasicInfo(),
		})
	}
	return requests, nil
}

// RespondToFriendRequest sets the status of an existing record. The service
// applies whatever status the caller supplies; membership validation is the
// boundary's concern.
func (s *friendshipService) RespondToFriendRequest(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	friendship, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(KindNotFound, "friend request not found")
		}
		return internalError("failed to load friend request", err)
	}

	matched, err := s.friendshipRepo.UpdateStatus(ctx, friendshipID, status, friendship.BlockedBy)
	if err != nil {
		return internalError("failed to update friend request", err)
	}
	if !matched {
		return NewError(KindNotFound, "friend request not found")
	}

	s.publishEvent(ctx, "responded", friendship.RequesterUsername, friendship.AddresseeUsername, status)
	return nil
}

// ListFriends returns the identity and presence of every user with an
// ACCEPTED record touching username.
func (s *friendshipService) ListFriends(ctx context.Context, username string) ([]models.FriendInfo, error) {
	accepted, err := s.friendshipRepo.FindTouchingByStatus(ctx, username, models.FriendshipStatusAccepted)
	if err != nil {
		return nil, internalError("failed to list friends", err)
	}

	friends := make([]models.FriendInfo, 0, len(accepted))
	for _, f := range accepted {
		other := f.OtherParty(username)
		user, err := s.userRepo.GetByUsername(ctx, other)
		if err != nil {
			s.logger.Warn("failed to resolve friend identity",
				zap.String("username", other), zap.Error(err))
			continue
		}
		info := models.FriendInfo{ID: user.ID, Username: user.Username}
		if profile, err := s.profileRepo.GetByUsername(ctx, other); err == nil {
			info.Status = profile.Status
		}
		friends = append(friends, info)
	}
	return friends, nil
}

// RemoveFriend deletes all ACCEPTED records between the pair. Removing a
// non-existent friendship is a no-op, not an error.
func (s *friendshipService) RemoveFriend(ctx context.Context, userA, userB string) error {
	if err := s.friendshipRepo.DeleteAcceptedBetween(ctx, userA, userB); err != nil {
		return internalError("failed to remove friend", err)
	}

	s.publishEvent(ctx, "removed", userA, userB, "")
	return nil
}

// BlockUser marks the relationship between blocker and blocked as BLOCKED,
// updating the existing record whatever its status, or creating a fresh
// BLOCKED record when none exists. Blocking is therefore always representable.
func (s *friendshipService) BlockUser(ctx context.Context, blocker, blocked string) error {
	existing, err := s.friendshipRepo.FindAnyBetween(ctx, blocker, blocked)
	if err != nil {
		return internalError("failed to check existing friendship", err)
	}

	if existing != nil {
		matched, err := s.friendshipRepo.UpdateStatus(ctx, existing.ID, models.FriendshipStatusBlocked, &blocker)
		if err != nil {
			return internalError("failed to block user", err)
		}
		if !matched {
			return NewError(KindNotFound, "friendship not found")
		}
	} else {
		friendship := &models.Friendship{
			RequesterUsername: blocker,
			AddresseeUsername: blocked,
			Status:            models.FriendshipStatusBlocked,
			BlockedBy:         &blocker,
		}
		if err := s.friendshipRepo.Create(ctx, friendship); err != nil {
			return internalError("failed to block user", err)
		}
	}

	s.publishEvent(ctx, "blocked", blocker, blocked, models.FriendshipStatusBlocked)
	return nil
}

// UnblockUser lifts a block previously placed by unblocker. The record
// transitions to DECLINED (the "no relationship" rest state) and the blocker
// marker is cleared. The stored row does not say whether a friendship existed
// before the block, so DECLINED is used in both cases.
func (s *friendshipService) UnblockUser(ctx context.Context, unblocker, blocked string) error {
	friendship, err := s.friendshipRepo.FindBlockedBetween(ctx, unblocker, blocked, unblocker)
	if err != nil {
		return internalError("failed to look up blocked relationship", err)
	}
	if friendship == nil {
		return NewError(KindNotFound, "no blocked relationship found")
	}

	matched, err := s.friendshipRepo.UpdateStatus(ctx, friendship.ID, models.FriendshipStatusDeclined, nil)
	if err != nil {
		return internalError("failed to unblock user", err)
	}
	if !matched {
		return NewError(KindNotFound, "no blocked relationship found")
	}

	s.publishEvent(ctx, "unblocked", unblocker, blocked, models.FriendshipStatusDeclined)
	return nil
}

// GetFriendshipStatus reports the current state between the pair. When no
// record exists it synthesizes DECLINED with no blocker.
func (s *friendshipService) GetFriendshipStatus(ctx context.Context, userA, userB string) (*models.FriendshipStatusInfo, error) {
	friendship, err := s.friendshipRepo.FindAnyBetween(ctx, userA, userB)
	if err != nil {
		return nil, internalError("failed to look up friendship status", err)
	}
	if friendship == nil {
		return &models.FriendshipStatusInfo{Status: models.FriendshipStatusDeclined}, nil
	}
	return &models.FriendshipStatusInfo{
		Status:    friendship.Status,
		BlockedBy: friendship.BlockedBy,
	}, nil
}

// GetBlockedUsers returns the counterparty of every BLOCKED record touching
// username, regardless of which side placed the block.
func (s *friendshipService) GetBlockedUsers(ctx context.Context, username string) ([]string, error) {
	blocked, err := s.friendshipRepo.FindTouchingByStatus(ctx, username, models.FriendshipStatusBlocked)
	if err != nil {
		return nil, internalError("failed to list blocked users", err)
	}

	usernames := make([]string, 0, len(blocked))
	for _, f := range blocked {
		usernames = append(usernames, f.OtherParty(username))
	}
	return usernames, nil
}

// publishEvent emits a FriendshipEvent keyed by the unordered pair. Failures
// are logged and never surfaced: the state change already committed.
func (s *friendshipService) publishEvent(ctx context.Context, eventType, requester, addressee string, status models.FriendshipStatus) {
	if s.producer == nil {
		return
	}

	event := FriendshipEvent{
		Type:              eventType,
		RequesterUsername: requester,
		AddresseeUsername: addressee,
		Status:            status,
		Timestamp:         time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to marshal friendship event", zap.Error(err))
		return
	}

	key := pairKey(requester, addressee)
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.producer.SendMessage(pubCtx, s.eventTopic, []byte(key), payload); err != nil {
		s.logger.Warn("failed to publish friendship event",
			zap.String("type", eventType), zap.String("key", key), zap.Error(err))
	}
}

// pairKey builds a stable key for the unordered pair so both directions land
// on the same partition.
func pairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}
