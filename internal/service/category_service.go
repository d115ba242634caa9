package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"artmarket/internal/core/cache"
	"artmarket/internal/domain"
	"artmarket/pkg/utils"
)

const (
	categoriesKey = "categories:all"
	categoriesTTL = 10 * time.Minute

	msgCategoryNotFound = "Category not found"
	msgCategoryExists   = "Category with this name already exists"
)

type CategoryService struct {
	repo  domain.CategoryRepository
	cache *cache.Cache
	log   *zap.Logger
}

func NewCategoryService(repo domain.CategoryRepository, c *cache.Cache, log *zap.Logger) *CategoryService {
	if c == nil {
		c = cache.Disabled()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryService{repo: repo, cache: c, log: log}
}

// CategoryInput is used for create and update. On update nil fields are kept.
type CategoryInput struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	Image       *string `json:"image"`
}

// List is served from redis when configured; writes below drop the key.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, categoriesKey, categoriesTTL, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if name == "" {
		return nil, domain.E(domain.ErrValidation, "Please add a category name")
	}
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}
	c := &domain.Category{ID: utils.NewID(), Name: name, Slug: slug.Make(name)}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Wrap(domain.ErrConflict, msgCategoryExists, err)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" && name != c.Name {
			if err := s.ensureNameFree(ctx, name); err != nil {
				return nil, err
			}
			c.Name, c.Slug = name, slug.Make(name)
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Wrap(domain.ErrConflict, msgCategoryExists, err)
		}
		return nil, fmt.Errorf("save category: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

// Delete does not touch artworks: they carry the category as plain text.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, msgCategoryNotFound)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) find(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.E(domain.ErrNotFound, msgCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.repo.FindByName(ctx, name)
	switch {
	case err == nil:
		return domain.E(domain.ErrConflict, msgCategoryExists)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup category: %w", err)
	}
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesKey); err != nil {
		s.log.Warn("category cache invalidation failed", zap.Error(err))
	}
}
