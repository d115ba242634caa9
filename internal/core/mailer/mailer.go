package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"artmarket/internal/core/config"
)

type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type SMTPMailer struct {
	cfg config.SMTP
}

func NewSMTP(cfg config.SMTP) *SMTPMailer { return &SMTPMailer{cfg: cfg} }

func (s *SMTPMailer) Send(ctx context.Context, in Message) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if err := m.To(in.To); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	if in.ReplyTo != "" {
		if err := m.ReplyTo(in.ReplyTo); err != nil {
			return fmt.Errorf("reply-to: %w", err)
		}
	}
	m.Subject(in.Subject)
	m.SetBodyString(mail.TypeTextPlain, in.Text)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	c, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them. Used when
// no SMTP host is configured.
type LogMailer struct{ L *zap.Logger }

func (l LogMailer) Send(_ context.Context, m Message) error {
	l.L.Info("mail (not delivered, smtp disabled)",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.Int("bytes", len(m.Text)),
	)
	return nil
}

func New(cfg config.SMTP, l *zap.Logger) Mailer {
	if cfg.Host == "" {
		return LogMailer{L: l}
	}
	return NewSMTP(cfg)
}
