package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"artmarket/internal/core/auth"
	"artmarket/internal/core/database"
	"artmarket/internal/core/events"
	"artmarket/internal/core/mailer"
	"artmarket/internal/domain"
)

// MockUserRepository is a testify mock of domain.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	args := m.Called(ctx, q, offset, limit)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id, digest string, expire time.Time) error {
	return m.Called(ctx, id, digest, expire).Error(0)
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*domain.User, error) {
	args := m.Called(ctx, digest, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ConsumeResetToken(ctx context.Context, id, digest, hash string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, digest, hash, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Summaries(ctx context.Context, ids []string, withContact bool) (map[string]*domain.ArtistSummary, error) {
	args := m.Called(ctx, ids, withContact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.ArtistSummary), args.Error(1)
}

// stubMailer records sent messages and fails when err is set.
type stubMailer struct {
	mu   sync.Mutex
	err  error
	sent []mailer.Message
}

func (s *stubMailer) Send(_ context.Context, m mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func (s *stubMailer) last() mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func testJWT() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "artmarket", TTL: time.Hour}
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:" + t.Name() + "?mode=memory&cache=shared",
		LogLevel: "silent",
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
