package models

// User represents an account in the system. The username is the natural key:
// it is unique, immutable after registration, and friendship and profile rows
// reference it directly.
type User struct {
	BaseModel
	Username         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash     string `gorm:"type:varchar(255);not null" json:"-"` // never exposed
	Email            string `gorm:"type:varchar(100)" json:"email,omitempty"`
	Active           bool   `gorm:"not null;default:true" json:"active"`
	TwoFactorEnabled bool   `gorm:"not null;default:false" json:"twoFactorEnabled"`
	TwoFactorSecret  string `gorm:"type:varchar(64)" json:"-"` // never exposed

	Profile *Profile `gorm:"foreignKey:Username;references:Username" json:"profile,omitempty"`
}

// UserBasicInfo holds minimal public information about a user.
// Used for scenarios like displaying requester info in friend requests.
type UserBasicInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Sanitize clears credential material before the record leaves the service
// layer.
func (u *User) Sanitize() {
	u.PasswordHash = ""
	u.TwoFactorSecret = ""
}

// BasicInfo returns the public identity subset of the user.
func (u *User) BasicInfo() *UserBasicInfo {
	return &UserBasicInfo{ID: u.ID, Username: u.Username}
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
