package repo

import (
	"context"

	"gorm.io/gorm"

	"artmarket/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

var _ domain.CategoryRepository = (*CategoryRepo)(nil)

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return checkAffected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{}))
}
