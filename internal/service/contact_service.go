package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artmarket/internal/core/events"
	"artmarket/internal/core/mailer"
	"artmarket/internal/domain"
)

type ContactService struct {
	users    domain.UserRepository
	artworks domain.ArtworkRepository
	mail     mailer.Mailer
	events   events.Publisher
}

func NewContactService(users domain.UserRepository, artworks domain.ArtworkRepository, mail mailer.Mailer, pub events.Publisher) *ContactService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ContactService{users: users, artworks: artworks, mail: mail, events: pub}
}

type ContactInput struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Subject   string `json:"subject" binding:"required,max=200"`
	Message   string `json:"message" binding:"required,max=5000"`
	ArtworkID string `json:"artworkId"`
	ArtistID  string `json:"artistId"`
}

// Send mails the artist behind ArtistID, or else the owner of ArtworkID,
// with Reply-To pointing at the visitor.
func (s *ContactService) Send(ctx context.Context, in ContactInput) error {
	var artwork *domain.Artwork
	if in.ArtworkID != "" {
		a, err := s.artworks.FindByID(ctx, in.ArtworkID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, msgArtworkNotFound)
		}
		if err != nil {
			return fmt.Errorf("load artwork: %w", err)
		}
		artwork = a
	}

	artistID := in.ArtistID
	if artistID == "" && artwork != nil {
		artistID = artwork.ArtistID
	}
	if artistID == "" {
		return domain.E(domain.ErrValidation, "Please provide an artist or an artwork")
	}
	artist, err := s.users.FindByID(ctx, artistID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.E(domain.ErrNotFound, "Artist not found")
	}
	if err != nil {
		return fmt.Errorf("load artist: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New message from %s <%s>\n\n", in.Name, in.Email)
	if artwork != nil {
		fmt.Fprintf(&b, "About artwork: %s\n\n", artwork.Title)
	}
	b.WriteString(in.Message)
	b.WriteString("\n")

	err = s.mail.Send(ctx, mailer.Message{
		To:      artist.Email,
		ReplyTo: in.Email,
		Subject: "Art Market inquiry: " + in.Subject,
		Text:    b.String(),
	})
	if err != nil {
		return domain.Wrap(domain.ErrInternal, "Message could not be sent", err)
	}
	s.events.Publish(ctx, events.New(events.ContactMessageSent, artist.ID, "", map[string]string{"artworkId": in.ArtworkID}))
	return nil
}
