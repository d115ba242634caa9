package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error
	SetActive(ctx context.Context, id string, active bool) error

	SetResetToken(ctx context.Context, id, digest string, expire time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*User, error)
	// ConsumeResetToken swaps the password hash and clears the reset pair only
	// if the digest still matches and has not expired. It reports whether a
	// row was changed.
	ConsumeResetToken(ctx context.Context, id, digest, passwordHash string, now time.Time) (bool, error)

	Summaries(ctx context.Context, ids []string, withContact bool) (map[string]*ArtistSummary, error)
}

type ArtworkRepository interface {
	Create(ctx context.Context, a *Artwork) error
	FindByID(ctx context.Context, id string) (*Artwork, error)
	Save(ctx context.Context, a *Artwork) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f ArtworkFilter) ([]Artwork, int64, error)
	ListByArtist(ctx context.Context, artistID string) ([]Artwork, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}
