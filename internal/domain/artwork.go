package domain

import "time"

type Artwork struct {
	ID          string   `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Title       string   `gorm:"size:100;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Image       string   `gorm:"size:500;not null" json:"image"`
	Images      []string `gorm:"serializer:json" json:"images,omitempty"`
	Size        string   `gorm:"size:50;not null" json:"size"`
	Note        string   `gorm:"type:text" json:"note,omitempty"`
	Sold        bool     `gorm:"not null;default:false;index" json:"sold"`
	ArtistID    string   `gorm:"type:varchar(32);not null;index" json:"artistId"`
	Category    string   `gorm:"size:50;index" json:"category,omitempty"`
	Tags        []string `gorm:"serializer:json" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Owner  *User          `gorm:"foreignKey:ArtistID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Artist *ArtistSummary `gorm:"-" json:"artist,omitempty"`
}

func (Artwork) TableName() string { return "artworks" }

// ArtworkFilter is the public gallery query. Sold is tri-state: nil means "any".
type ArtworkFilter struct {
	Search   string
	Category string
	Sold     *bool
	Offset   int
	Limit    int
}

// ArtworkPatch holds the client-updatable fields. ArtistID is deliberately absent.
type ArtworkPatch struct {
	Title       *string
	Description *string
	Image       *string
	Images      *[]string
	Size        *string
	Note        *string
	Sold        *bool
	Category    *string
	Tags        *[]string
}

func (p ArtworkPatch) Apply(a *Artwork) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Image != nil {
		a.Image = *p.Image
	}
	if p.Images != nil {
		a.Images = *p.Images
	}
	if p.Size != nil {
		a.Size = *p.Size
	}
	if p.Note != nil {
		a.Note = *p.Note
	}
	if p.Sold != nil {
		a.Sold = *p.Sold
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Tags != nil {
		a.Tags = *p.Tags
	}
}
