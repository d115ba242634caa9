package domain

import "time"

// Category is a standalone label table. Artworks carry the name as free text,
// so renaming or deleting a category does not touch existing artworks.
type Category struct {
	ID          string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Description string    `gorm:"size:200" json:"description,omitempty"`
	Image       string    `gorm:"size:500" json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }
