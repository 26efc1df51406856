package models

// FriendshipStatus is the lifecycle state of a friendship edge.
// PENDING is the creation state; DECLINED doubles as the "no relationship"
// rest state reported when no record exists and after an unblock.
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "PENDING"
	FriendshipStatusAccepted FriendshipStatus = "ACCEPTED"
	FriendshipStatusBlocked  FriendshipStatus = "BLOCKED"
	FriendshipStatusDeclined FriendshipStatus = "DECLINED"
)

// Valid reports whether s is one of the known friendship states.
func (s FriendshipStatus) Valid() bool {
	switch s {
	case FriendshipStatusPending, FriendshipStatusAccepted,
		FriendshipStatusBlocked, FriendshipStatusDeclined:
		return true
	}
	return false
}

// Friendship is a directed edge between two usernames. Pair symmetry is a
// query-time concern: at most one active (PENDING or ACCEPTED) record should
// exist per unordered pair, enforced by an existence check before insert.
// BlockedBy records which party initiated a block and is cleared on unblock.
type Friendship struct {
	BaseModel
	RequesterUsername string           `gorm:"type:varchar(100);not null;index:idx_friendship_pair" json:"requesterUsername"`
	AddresseeUsername string           `gorm:"type:varchar(100);not null;index:idx_friendship_pair" json:"addresseeUsername"`
	Status            FriendshipStatus `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`
	BlockedBy         *string          `gorm:"type:varchar(100)" json:"blockedBy,omitempty"`
}

// OtherParty returns the counterpart of username on this edge. Direction is
// always decided against the requester field.
func (f *Friendship) OtherParty(username string) string {
	if f.RequesterUsername == username {
		return f.AddresseeUsername
	}
	return f.RequesterUsername
}

// TableName specifies the table name for the Friendship model.
func (Friendship) TableName() string {
	return "friendships"
}

// FriendRequestWithRequester is a DTO that includes a pending friendship
// record along with the public identity of the user who sent it.
type FriendRequestWithRequester struct {
	Friendship
	Requester *UserBasicInfo `json:"requester"`
}

// FriendInfo is one entry of a friends list: the other party's identity plus
// their current presence status.
type FriendInfo struct {
	ID       uint          `json:"id"`
	Username string        `json:"username"`
	Status   ProfileStatus `json:"status,omitempty"`
}

// FriendshipStatusInfo is the answer to a pair status query. When no record
// exists between the pair it carries the synthetic DECLINED state with no
// blocker.
type FriendshipStatusInfo struct {
	Status    FriendshipStatus `json:"status"`
	BlockedBy *string          `json:"blockedBy"`
}
