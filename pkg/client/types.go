package client

import "time"

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
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         string       `json:"role"`
	IsActive     bool         `json:"isActive"`
	Bio          string       `json:"bio,omitempty"`
	ProfileImage string       `json:"profileImage,omitempty"`
	ContactInfo  *ContactInfo `json:"contactInfo,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (u *User) IsArtist() bool     { return u != nil && u.Role == "artist" }
func (u *User) IsSuperAdmin() bool { return u != nil && u.Role == "super_admin" }

type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	ProfileImage string       `json:"profileImage,omitempty"`
	ContactInfo  *ContactInfo `json:"contactInfo,omitempty"`
}

type Artwork struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Images      []string  `json:"images,omitempty"`
	Size        string    `json:"size"`
	Note        string    `json:"note,omitempty"`
	Sold        bool      `json:"sold"`
	ArtistID    string    `json:"artistId"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Artist      *Artist   `json:"artist,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type PageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	Pagination struct {
		Next *PageLink `json:"next,omitempty"`
		Prev *PageLink `json:"prev,omitempty"`
	} `json:"pagination"`
}

type ArtworkPage struct {
	Data []Artwork `json:"data"`
	PageMeta
}

type AdminArtworkPage struct {
	Artworks []Artwork `json:"artworks"`
	PageMeta
}

type UserPage struct {
	Users []User `json:"users"`
	PageMeta
}

// ArtworkQuery filters the gallery. Zero Page/Limit let the server default.
type ArtworkQuery struct {
	Search   string
	Category string
	Sold     *bool
	Page     int
	Limit    int
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

type ProfileUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Bio         *string      `json:"bio,omitempty"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
}

type ArtworkInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Size        string   `json:"size"`
	Note        string   `json:"note,omitempty"`
	Sold        bool     `json:"sold"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ArtworkPatch sends only the non-nil fields.
type ArtworkPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Size        *string   `json:"size,omitempty"`
	Note        *string   `json:"note,omitempty"`
	Sold        *bool     `json:"sold,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

type ContactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	ArtworkID string `json:"artworkId,omitempty"`
	ArtistID  string `json:"artistId,omitempty"`
}
