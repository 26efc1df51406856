package models

// ProfileStatus is the presence state shown to friends.
type ProfileStatus string

const (
	ProfileStatusOnline  ProfileStatus = "online"
	ProfileStatusOffline ProfileStatus = "offline"
	ProfileStatusInGame  ProfileStatus = "in-game"
)

// Valid reports whether s is one of the known presence states.
func (s ProfileStatus) Valid() bool {
	switch s {
	case ProfileStatusOnline, ProfileStatusOffline, ProfileStatusInGame:
		return true
	}
	return false
}

// Gender enumerates the profile gender options.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Language enumerates the profile display languages.
type Language string

const (
	LanguageEnglish    Language = "ENGLISH"
	LanguagePortuguese Language = "PORTUGUESE"
)

// Profile holds the public-facing data of a user. At most one profile exists
// per username; it is created explicitly after registration and cannot outlive
// its user. The avatar blob lives on the row but is only ever read or written
// through the dedicated avatar endpoints, so it is excluded from JSON.
type Profile struct {
	BaseModel
	Username  string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Nickname  string        `gorm:"type:varchar(100)" json:"nickName,omitempty"`
	Bio       string        `gorm:"type:text" json:"bio,omitempty"`
	Gender    Gender        `gorm:"type:varchar(10)" json:"gender,omitempty"`
	FirstName string        `gorm:"type:varchar(100)" json:"firstName,omitempty"`
	LastName  string        `gorm:"type:varchar(100)" json:"lastName,omitempty"`
	Language  Language      `gorm:"type:varchar(20)" json:"language,omitempty"`
	Status    ProfileStatus `gorm:"type:varchar(10);not null;default:'offline'" json:"status"`
	Avatar    []byte        `gorm:"type:bytea" json:"-"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}
