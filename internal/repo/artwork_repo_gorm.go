package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"artmarket/internal/domain"
)

type ArtworkRepo struct{ db *gorm.DB }

var _ domain.ArtworkRepository = (*ArtworkRepo)(nil)

func NewArtworkRepo(db *gorm.DB) *ArtworkRepo { return &ArtworkRepo{db: db} }

func (r *ArtworkRepo) Create(ctx context.Context, a *domain.Artwork) error {
	return translate(r.db.WithContext(ctx).Omit("Owner").Create(a).Error)
}

func (r *ArtworkRepo) FindByID(ctx context.Context, id string) (*domain.Artwork, error) {
	var a domain.Artwork
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *ArtworkRepo) Save(ctx context.Context, a *domain.Artwork) error {
	return translate(r.db.WithContext(ctx).Omit("Owner").Save(a).Error)
}

func (r *ArtworkRepo) Delete(ctx context.Context, id string) error {
	return checkAffected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Artwork{}))
}

// Search runs the gallery query: substring on title/description, exact
// category, optional sold flag, newest first. Count and page share one filter.
func (r *ArtworkRepo) Search(ctx context.Context, f domain.ArtworkFilter) ([]domain.Artwork, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Artwork{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := containsPattern(s)
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Sold != nil {
		q = q.Where("sold = ?", *f.Sold)
	}

	q = q.Session(&gorm.Session{}) // reused for count and page

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]domain.Artwork, 0, f.Limit)
	if total == 0 || int64(f.Offset) >= total {
		return items, total, nil
	}
	if err := q.Order("created_at DESC").Order("id DESC").
		Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ArtworkRepo) ListByArtist(ctx context.Context, artistID string) ([]domain.Artwork, error) {
	items := make([]domain.Artwork, 0)
	err := r.db.WithContext(ctx).Where("artist_id = ?", artistID).
		Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}
