package domain

import "time"

const (
	RoleArtist     = "artist"
	RoleSuperAdmin = "super_admin"
)

type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

type ContactInfo struct {
	Phone       string       `json:"phone,omitempty"`
	Website     string       `json:"website,omitempty"`
	SocialMedia *SocialMedia `json:"socialMedia,omitempty"`
}

type User struct {
	ID           string       `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Email        string       `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string       `gorm:"size:64;not null" json:"name"`
	PasswordHash string       `gorm:"size:100;not null" json:"-"`
	Role         string       `gorm:"size:16;not null;default:artist" json:"role"`
	IsActive     bool         `gorm:"not null;default:false" json:"isActive"`
	Bio          string       `gorm:"type:text" json:"bio,omitempty"`
	ProfileImage string       `gorm:"size:500" json:"profileImage,omitempty"`
	ContactInfo  *ContactInfo `gorm:"serializer:json" json:"contactInfo,omitempty"`

	// digest of the emailed reset token, never the raw value
	ResetPasswordToken  *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

// ArtistSummary is the public projection of a user attached to artworks.
type ArtistSummary struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	ProfileImage string       `json:"profileImage,omitempty"`
	ContactInfo  *ContactInfo `gorm:"serializer:json" json:"contactInfo,omitempty"`
}

// ProfileUpdate carries the only fields a user may change on their own record.
type ProfileUpdate struct {
	Name        *string
	Bio         *string
	ContactInfo *ContactInfo
}
