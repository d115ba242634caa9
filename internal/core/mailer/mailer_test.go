package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"artmarket/internal/core/config"
)

func TestNewPicksLogMailerWithoutHost(t *testing.T) {
	m := New(config.SMTP{}, zap.NewNop())
	_, ok := m.(LogMailer)
	assert.True(t, ok)

	m = New(config.SMTP{Host: "smtp.example.com", Port: 587}, zap.NewNop())
	_, ok = m.(*SMTPMailer)
	assert.True(t, ok)
}

func TestLogMailerDoesNotLogBody(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	err := LogMailer{L: zap.New(core)}.Send(context.Background(), Message{
		To: "a@x.com", Subject: "Password Reset Token", Text: "secret-link",
	})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	for _, f := range logs.All()[0].Context {
		assert.NotEqual(t, "secret-link", f.String)
	}
}

func TestSMTPMailerRejectsBadRecipient(t *testing.T) {
	m := NewSMTP(config.SMTP{Host: "localhost", Port: 2525, FromEmail: "noreply@example.com"})
	err := m.Send(context.Background(), Message{To: "not an address", Subject: "x", Text: "y"})
	assert.ErrorContains(t, err, "to:")
}
