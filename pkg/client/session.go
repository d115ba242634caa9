package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

const sessionKey = "session"

// Session is the signed-in state: bearer token plus the user it belongs to.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SessionStore holds the current session in memory and mirrors every change
// to its Storage. It is safe for concurrent use.
type SessionStore struct {
	st Storage

	mu  sync.RWMutex
	cur *Session
}

func NewSessionStore(st Storage) *SessionStore {
	if st == nil {
		st = NewMemoryStorage()
	}
	return &SessionStore{st: st}
}

// Init restores the persisted session. Corrupt or incomplete data is
// discarded. When verify is non-nil it is called with the restored token;
// if the server rejects it (401) the session is cleared, any other error is
// returned with the session kept.
func (s *SessionStore) Init(ctx context.Context, verify func(ctx context.Context, token string) error) error {
	b, err := s.st.Load(sessionKey)
	if errors.Is(err, ErrNoData) {
		return nil
	}
	if err != nil {
		return err
	}
	var sess Session
	if json.Unmarshal(b, &sess) != nil || sess.Token == "" || sess.User == nil {
		return s.Clear()
	}

	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()

	if verify == nil {
		return nil
	}
	if err := verify(ctx, sess.Token); err != nil {
		if IsUnauthorized(err) {
			return s.Clear()
		}
		return err
	}
	return nil
}

// Get returns a copy of the current session.
func (s *SessionStore) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Session{}, false
	}
	return *s.cur, true
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.Token
}

func (s *SessionStore) Set(sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.st.Save(sessionKey, b); err != nil {
		return err
	}
	s.cur = &sess
	return nil
}

// SetUser replaces the stored user and keeps the token.
func (s *SessionStore) SetUser(u *User) error {
	sess, ok := s.Get()
	if !ok {
		return nil
	}
	sess.User = u
	return s.Set(sess)
}

func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
	return s.st.Remove(sessionKey)
}

func (s *SessionStore) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}
