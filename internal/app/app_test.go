package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"artmarket/internal/core/auth"
	"artmarket/internal/core/config"
	"artmarket/internal/core/mailer"
)

type captureMailer struct {
	mu   sync.Mutex
	msgs []mailer.Message
}

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *captureMailer) last() mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msgs[len(m.msgs)-1]
}

var resetLink = regexp.MustCompile(`/reset-password/([0-9a-f]+)`)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		App: config.App{Name: "artmarket", Env: "test", FrontendURL: "http://localhost:5173"},
		JWT: config.JWT{Secret: "test-secret", Issuer: "artmarket", AccessTokenTTLMin: 60},
		DB: config.DB{
			Driver:      "sqlite",
			DSN:         "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on",
			AutoMigrate: true,
			LogLevel:    "silent",
		},
		Auth:      config.Auth{BcryptCost: 4, ResetTokenTTLMin: 10},
		Bootstrap: config.Bootstrap{Email: "root@example.com", Password: "rootpass", Name: "Root"},
	}
}

type env struct {
	t    *testing.T
	app  *App
	api  *gin.Engine
	mail *captureMailer
}

func newEnv(t *testing.T, mutate ...func(*config.Config)) *env {
	cfg := testConfig(t)
	for _, m := range mutate {
		m(cfg)
	}
	mail := &captureMailer{}
	a, err := New(cfg, zap.NewNop(), WithMailer(mail), WithRevoker(auth.NewMemoryRevoker()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.BootstrapSuperAdmin(context.Background()))
	return &env{t: t, app: a, api: a.APIEngine(), mail: mail}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e *env) do(h http.Handler, method, path, token string, body any) (int, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var out envelope
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Role     string `json:"role"`
		IsActive bool   `json:"isActive"`
	} `json:"user"`
}

func (e *env) register(name, email string) session {
	e.t.Helper()
	code, out := e.do(e.api, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(e.t, http.StatusCreated, code, out.Message)
	var s session
	require.NoError(e.t, json.Unmarshal(out.Data, &s))
	return s
}

func (e *env) login(email, password string) (int, session, string) {
	e.t.Helper()
	code, out := e.do(e.api, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	var s session
	if code == http.StatusOK {
		require.NoError(e.t, json.Unmarshal(out.Data, &s))
	}
	return code, s, out.Message
}

func TestAuthFlow(t *testing.T) {
	e := newEnv(t)

	s := e.register("Ana", "ana@example.com")
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "artist", s.User.Role)
	assert.False(t, s.User.IsActive)

	code, out := e.do(e.api, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already exists", out.Message)

	code, out = e.do(e.api, http.MethodPost, "/api/auth/register", "", gin.H{"name": "x", "email": "bad", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, out.Success)

	code, _, msg := e.login("ana@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", msg)
	code, _, msg = e.login("nobody@example.com", "secret1")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", msg)

	code, logged, _ := e.login("ana@example.com", "secret1")
	require.Equal(t, http.StatusOK, code)

	code, out = e.do(e.api, http.MethodGet, "/api/auth/profile", logged.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(out.Data), "password")

	code, out = e.do(e.api, http.MethodPut, "/api/auth/profile", logged.Token, gin.H{"bio": "painter", "role": "super_admin"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), `"bio":"painter"`)
	assert.Contains(t, string(out.Data), `"role":"artist"`)

	code, _ = e.do(e.api, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out = e.do(e.api, http.MethodPost, "/api/auth/logout", logged.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out", out.Message)
	code, out = e.do(e.api, http.MethodGet, "/api/auth/profile", logged.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has been revoked", out.Message)

	// other sessions survive
	code, _ = e.do(e.api, http.MethodGet, "/api/auth/profile", s.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestPasswordReset(t *testing.T) {
	e := newEnv(t)
	e.register("Ana", "ana@example.com")

	code, out := e.do(e.api, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "There is no user with that email", out.Message)

	code, out = e.do(e.api, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "ana@example.com"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Email sent", out.Message)

	msg := e.mail.last()
	assert.Equal(t, "ana@example.com", msg.To)
	m := resetLink.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2)
	token := m[1]

	code, out = e.do(e.api, http.MethodPut, "/api/auth/reset-password/"+token, "", gin.H{"password": "newpass1"})
	require.Equal(t, http.StatusOK, code, out.Message)
	var s session
	require.NoError(t, json.Unmarshal(out.Data, &s))
	assert.NotEmpty(t, s.Token)

	code, out = e.do(e.api, http.MethodPut, "/api/auth/reset-password/"+token, "", gin.H{"password": "another1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid token", out.Message)

	code, _, _ = e.login("ana@example.com", "secret1")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _, _ = e.login("ana@example.com", "newpass1")
	assert.Equal(t, http.StatusOK, code)
}

type artworkPage struct {
	Data []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Artist *struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func TestArtworkLifecycle(t *testing.T) {
	e := newEnv(t)
	ana := e.register("Ana", "ana@example.com")
	bob := e.register("Bob", "bob@example.com")

	art := gin.H{"title": "Blue Hour", "description": "oil on canvas", "image": "blue.jpg", "size": "50x70", "category": "Painting"}

	code, _ := e.do(e.api, http.MethodPost, "/api/artworks", "", art)
	assert.Equal(t, http.StatusUnauthorized, code)

	// inactive artists can post while the activation policy is off
	code, out := e.do(e.api, http.MethodPost, "/api/artworks", ana.Token, art)
	require.Equal(t, http.StatusCreated, code, out.Message)
	var created struct {
		ID       string `json:"id"`
		ArtistID string `json:"artistId"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &created))
	assert.Equal(t, ana.User.ID, created.ArtistID)

	code, out = e.do(e.api, http.MethodGet, "/api/artworks?search=BLUE", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page artworkPage
	require.NoError(t, json.Unmarshal(out.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Total)
	require.NotNil(t, page.Data[0].Artist)
	assert.Equal(t, "Ana", page.Data[0].Artist.Name)

	code, out = e.do(e.api, http.MethodGet, "/api/artworks?search=nonexistent", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), `"data":[]`)
	require.NoError(t, json.Unmarshal(out.Data, &page))
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)

	code, out = e.do(e.api, http.MethodGet, "/api/artworks?page=1844674407370955161&limit=10", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), `"data":[]`)
	assert.NotContains(t, string(out.Data), `"next"`)
	assert.Contains(t, string(out.Data), `"prev"`)

	code, _ = e.do(e.api, http.MethodGet, "/api/artworks?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(e.api, http.MethodPut, "/api/artworks/"+created.ID, bob.Token, gin.H{"sold": true})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = e.do(e.api, http.MethodDelete, "/api/artworks/"+created.ID, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, out = e.do(e.api, http.MethodPut, "/api/artworks/"+created.ID, ana.Token, gin.H{"sold": true})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), `"sold":true`)

	code, out = e.do(e.api, http.MethodGet, "/api/artworks/artist/"+ana.User.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), created.ID)

	code, out = e.do(e.api, http.MethodDelete, "/api/artworks/"+created.ID, ana.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Artwork deleted successfully", out.Message)

	code, out = e.do(e.api, http.MethodGet, "/api/artworks/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Artwork not found", out.Message)
}

func TestRequireActivePolicy(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Auth.RequireActive = true })
	ana := e.register("Ana", "ana@example.com")
	art := gin.H{"title": "T", "description": "d", "image": "i.jpg", "size": "s"}

	code, out := e.do(e.api, http.MethodPost, "/api/artworks", ana.Token, art)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Account is not active", out.Message)

	_, root, _ := e.login("root@example.com", "rootpass")
	code, _ = e.do(e.api, http.MethodPut, "/api/admin/users/"+ana.User.ID+"/toggle-status", root.Token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = e.do(e.api, http.MethodPost, "/api/artworks", ana.Token, art)
	assert.Equal(t, http.StatusCreated, code)
}

func TestCategoriesAndAdmin(t *testing.T) {
	e := newEnv(t)
	ana := e.register("Ana", "ana@example.com")
	code, root, _ := e.login("root@example.com", "rootpass")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "super_admin", root.User.Role)

	code, _ = e.do(e.api, http.MethodPost, "/api/categories", ana.Token, gin.H{"name": "Sculpture"})
	assert.Equal(t, http.StatusForbidden, code)

	code, out := e.do(e.api, http.MethodPost, "/api/categories", root.Token, gin.H{"name": "Sculpture"})
	require.Equal(t, http.StatusCreated, code, out.Message)
	assert.Equal(t, "Category created successfully", out.Message)
	assert.Contains(t, string(out.Data), `"slug":"sculpture"`)

	code, _ = e.do(e.api, http.MethodPost, "/api/categories", root.Token, gin.H{"name": "Sculpture"})
	assert.Equal(t, http.StatusConflict, code)

	code, out = e.do(e.api, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), "Sculpture")

	code, _ = e.do(e.api, http.MethodGet, "/api/admin/users", ana.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, out = e.do(e.api, http.MethodGet, "/api/admin/users?q=ana", root.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var users struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &users))
	require.Len(t, users.Users, 1)
	assert.Equal(t, ana.User.ID, users.Users[0].ID)
	assert.NotContains(t, string(out.Data), "resetPassword")

	code, out = e.do(e.api, http.MethodPut, "/api/admin/users/"+ana.User.ID+"/toggle-status", root.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), `"isActive":true`)

	code, _ = e.do(e.api, http.MethodPut, "/api/admin/users/"+root.User.ID+"/toggle-status", root.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// the back-office engine exposes the same actions under /admin/v1
	admin := e.app.AdminEngine()
	code, out = e.do(admin, http.MethodGet, "/admin/v1/artworks", root.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), `"artworks":[]`)
	code, _ = e.do(admin, http.MethodGet, "/admin/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestContact(t *testing.T) {
	e := newEnv(t)
	ana := e.register("Ana", "ana@example.com")

	code, out := e.do(e.api, http.MethodPost, "/api/contact", "", gin.H{
		"name": "Visitor", "email": "v@example.com", "subject": "Hi", "message": "Love it", "artistId": ana.User.ID,
	})
	require.Equal(t, http.StatusOK, code, out.Message)
	assert.Equal(t, "ana@example.com", e.mail.last().To)
	assert.Equal(t, "v@example.com", e.mail.last().ReplyTo)

	code, _ = e.do(e.api, http.MethodPost, "/api/contact", "", gin.H{
		"name": "Visitor", "email": "v@example.com", "subject": "Hi", "message": "Love it", "artistId": "missing",
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOpsRoutes(t *testing.T) {
	e := newEnv(t)

	code, out := e.do(e.api, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, out.Success)
	assert.Equal(t, "Server is running", out.Message)

	code, out = e.do(e.api, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out.Data), `"db":"ok"`)

	code, out = e.do(e.api, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", out.Message)

	code, _ = e.do(e.api, http.MethodPatch, "/api/categories", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "artmarket_http_requests_total")
}

func TestBootstrapIsIdempotent(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.app.BootstrapSuperAdmin(context.Background()))
	u, err := e.app.Users.FindByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsSuperAdmin())
	assert.True(t, u.IsActive)
}
