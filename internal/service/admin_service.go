package service

import (
	"context"
	"errors"
	"fmt"

	"artmarket/internal/core/auth"
	"artmarket/internal/core/events"
	"artmarket/internal/domain"
)

type AdminService struct {
	users    domain.UserRepository
	artworks *ArtworkService
	events   events.Publisher
}

func NewAdminService(users domain.UserRepository, artworks *ArtworkService, pub events.Publisher) *AdminService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AdminService{users: users, artworks: artworks, events: pub}
}

type UserPage struct {
	Users []domain.User `json:"users"`
	PageMeta
}

func (s *AdminService) ListUsers(ctx context.Context, q string, page, limit *int) (*UserPage, error) {
	p, l := NormalizePage(page, limit)
	users, total, err := s.users.List(ctx, q, Offset(p, l), l)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UserPage{Users: users, PageMeta: NewPageMeta(total, p, l)}, nil
}

// ToggleStatus flips the activation flag and returns the updated user.
func (s *AdminService) ToggleStatus(ctx context.Context, caller *auth.Identity, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.E(domain.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if caller != nil && caller.UserID == u.ID {
		return nil, domain.E(domain.ErrValidation, "You cannot change your own status")
	}
	if err := s.users.SetActive(ctx, u.ID, !u.IsActive); err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}
	u.IsActive = !u.IsActive
	s.events.Publish(ctx, events.New(events.UserStatusChanged, u.ID, actorID(caller), map[string]bool{"isActive": u.IsActive}))
	return u, nil
}

func (s *AdminService) ListArtworks(ctx context.Context, page, limit *int) (*AdminArtworkPage, error) {
	return s.artworks.Moderate(ctx, page, limit)
}

func (s *AdminService) DeleteArtwork(ctx context.Context, caller *auth.Identity, id string) error {
	return s.artworks.Delete(ctx, caller, id)
}

func actorID(id *auth.Identity) string {
	if id == nil {
		return ""
	}
	return id.UserID
}
