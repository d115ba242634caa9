package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artmarket/internal/core/auth"
	"artmarket/internal/core/events"
	"artmarket/internal/domain"
	"artmarket/pkg/utils"
)

const msgArtworkNotFound = "Artwork not found"

type ArtworkService struct {
	artworks domain.ArtworkRepository
	users    domain.UserRepository
	events   events.Publisher // BestEffort in production; errors are logged there
}

func NewArtworkService(artworks domain.ArtworkRepository, users domain.UserRepository, pub events.Publisher) *ArtworkService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ArtworkService{artworks: artworks, users: users, events: pub}
}

// ArtworkQuery is the public gallery query. Nil Page/Limit take the defaults.
type ArtworkQuery struct {
	Search   string
	Category string
	Sold     *bool
	Page     *int
	Limit    *int
}

type ArtworkPage struct {
	Data []domain.Artwork `json:"data"`
	PageMeta
}

// AdminArtworkPage is the moderation listing; same page math, different key.
type AdminArtworkPage struct {
	Artworks []domain.Artwork `json:"artworks"`
	PageMeta
}

type ArtworkInput struct {
	Title       string   `json:"title" binding:"required,max=100"`
	Description string   `json:"description" binding:"required"`
	Image       string   `json:"image" binding:"required"`
	Images      []string `json:"images"`
	Size        string   `json:"size" binding:"required,max=50"`
	Note        string   `json:"note"`
	Sold        bool     `json:"sold"`
	Category    string   `json:"category" binding:"max=50"`
	Tags        []string `json:"tags"`
}

func (s *ArtworkService) List(ctx context.Context, q ArtworkQuery) (*ArtworkPage, error) {
	page, limit := NormalizePage(q.Page, q.Limit)
	items, total, err := s.artworks.Search(ctx, domain.ArtworkFilter{
		Search:   q.Search,
		Category: strings.TrimSpace(q.Category),
		Sold:     q.Sold,
		Offset:   Offset(page, limit),
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search artworks: %w", err)
	}
	if err := s.attachArtists(ctx, items, false); err != nil {
		return nil, err
	}
	return &ArtworkPage{Data: items, PageMeta: NewPageMeta(total, page, limit)}, nil
}

// Get returns one artwork with the artist's contact details attached.
func (s *ArtworkService) Get(ctx context.Context, id string) (*domain.Artwork, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	one := []domain.Artwork{*a}
	if err := s.attachArtists(ctx, one, true); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *ArtworkService) ByArtist(ctx context.Context, artistID string) ([]domain.Artwork, error) {
	items, err := s.artworks.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("list artist artworks: %w", err)
	}
	if err := s.attachArtists(ctx, items, false); err != nil {
		return nil, err
	}
	return items, nil
}

// Create always takes the artist from the caller, never from the body.
func (s *ArtworkService) Create(ctx context.Context, caller *auth.Identity, in ArtworkInput) (*domain.Artwork, error) {
	a := &domain.Artwork{
		ID:          utils.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       in.Image,
		Images:      in.Images,
		Size:        in.Size,
		Note:        in.Note,
		Sold:        in.Sold,
		ArtistID:    caller.UserID,
		Category:    strings.TrimSpace(in.Category),
		Tags:        in.Tags,
	}
	if a.Title == "" {
		return nil, domain.E(domain.ErrValidation, "Please add a title")
	}
	if err := s.artworks.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create artwork: %w", err)
	}
	s.events.Publish(ctx, events.New(events.ArtworkCreated, a.ID, caller.UserID, map[string]string{"title": a.Title}))
	return a, nil
}

func (s *ArtworkService) Update(ctx context.Context, caller *auth.Identity, id string, p domain.ArtworkPatch) (*domain.Artwork, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(caller, a) {
		return nil, domain.E(domain.ErrForbidden, "Not authorized to update this artwork")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, domain.E(domain.ErrValidation, "Please add a title")
	}
	p.Apply(a)
	if err := s.artworks.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save artwork: %w", err)
	}
	s.events.Publish(ctx, events.New(events.ArtworkUpdated, a.ID, caller.UserID, nil))
	return a, nil
}

func (s *ArtworkService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(caller, a) {
		return domain.E(domain.ErrForbidden, "Not authorized to delete this artwork")
	}
	return s.remove(ctx, caller, a.ID)
}

// Moderate is the super-admin listing of every artwork.
func (s *ArtworkService) Moderate(ctx context.Context, page, limit *int) (*AdminArtworkPage, error) {
	res, err := s.List(ctx, ArtworkQuery{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &AdminArtworkPage{Artworks: res.Data, PageMeta: res.PageMeta}, nil
}

func (s *ArtworkService) remove(ctx context.Context, caller *auth.Identity, id string) error {
	if err := s.artworks.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, msgArtworkNotFound)
		}
		return fmt.Errorf("delete artwork: %w", err)
	}
	s.events.Publish(ctx, events.New(events.ArtworkDeleted, id, caller.UserID, nil))
	return nil
}

func (s *ArtworkService) find(ctx context.Context, id string) (*domain.Artwork, error) {
	a, err := s.artworks.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.E(domain.ErrNotFound, msgArtworkNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load artwork: %w", err)
	}
	return a, nil
}

func (s *ArtworkService) attachArtists(ctx context.Context, items []domain.Artwork, withContact bool) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, a := range items {
		if _, ok := seen[a.ArtistID]; !ok {
			seen[a.ArtistID] = struct{}{}
			ids = append(ids, a.ArtistID)
		}
	}
	artists, err := s.users.Summaries(ctx, ids, withContact)
	if err != nil {
		return fmt.Errorf("load artists: %w", err)
	}
	for i := range items {
		items[i].Artist = artists[items[i].ArtistID]
	}
	return nil
}

func canModify(caller *auth.Identity, a *domain.Artwork) bool {
	return caller != nil && (caller.UserID == a.ArtistID || caller.Role == domain.RoleSuperAdmin)
}
