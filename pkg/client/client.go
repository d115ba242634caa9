// Package client is a Go SDK for the art marketplace REST API. It keeps the
// signed-in session in a SessionStore and attaches its token to every call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type Client struct {
	base    string
	hc      *http.Client
	session *SessionStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

func WithSession(s *SessionStore) Option { return func(c *Client) { c.session = s } }

// New returns a client for baseURL, the API root (e.g. http://localhost:5000/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	if c.session == nil {
		c.session = NewSessionStore(nil)
	}
	return c
}

func (c *Client) Session() *SessionStore { return c.session }

// InitSession restores the stored session and drops it if the server no
// longer accepts its token.
func (c *Client) InitSession(ctx context.Context) error {
	return c.session.Init(ctx, func(ctx context.Context, token string) error {
		return c.call(ctx, http.MethodGet, "/auth/profile", nil, nil, nil)
	})
}

// call sends in as JSON, decodes the envelope's data into out and maps
// failures to *APIError. A 401 on an authenticated call clears the session.
func (c *Client) call(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	raw, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && res.StatusCode < 300 {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	if res.StatusCode >= 300 || (len(raw) > 0 && !env.Success) {
		if res.StatusCode == http.StatusUnauthorized && token != "" {
			_ = c.session.Clear()
		}
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func pageValues(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// ---- auth ----

func (c *Client) startSession(ctx context.Context, method, path string, in any) (*Session, error) {
	var s Session
	if err := c.call(ctx, method, path, nil, in, &s); err != nil {
		return nil, err
	}
	if err := c.session.Set(s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*Session, error) {
	return c.startSession(ctx, http.MethodPost, "/auth/register", in)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.startSession(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) (*Session, error) {
	return c.startSession(ctx, http.MethodPut, "/auth/reset-password/"+url.PathEscape(token), map[string]string{"password": password})
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email}, nil)
}

// Logout revokes the token server-side and always clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.session.Token() != "" {
		err = c.call(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	}
	if cerr := c.session.Clear(); cerr != nil {
		return cerr
	}
	if IsUnauthorized(err) {
		return nil
	}
	return err
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodGet, "/auth/profile", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p ProfileUpdate) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodPut, "/auth/profile", nil, p, &u); err != nil {
		return nil, err
	}
	return &u, c.session.SetUser(&u)
}

// ---- artworks ----

func (c *Client) ListArtworks(ctx context.Context, aq ArtworkQuery) (*ArtworkPage, error) {
	q := pageValues(aq.Page, aq.Limit)
	if aq.Search != "" {
		q.Set("search", aq.Search)
	}
	if aq.Category != "" {
		q.Set("category", aq.Category)
	}
	if aq.Sold != nil {
		q.Set("sold", strconv.FormatBool(*aq.Sold))
	}
	var p ArtworkPage
	if err := c.call(ctx, http.MethodGet, "/artworks", q, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetArtwork(ctx context.Context, id string) (*Artwork, error) {
	var a Artwork
	if err := c.call(ctx, http.MethodGet, "/artworks/"+url.PathEscape(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ArtworksByArtist(ctx context.Context, artistID string) ([]Artwork, error) {
	out := []Artwork{}
	if err := c.call(ctx, http.MethodGet, "/artworks/artist/"+url.PathEscape(artistID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateArtwork(ctx context.Context, in ArtworkInput) (*Artwork, error) {
	var a Artwork
	if err := c.call(ctx, http.MethodPost, "/artworks", nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateArtwork(ctx context.Context, id string, p ArtworkPatch) (*Artwork, error) {
	var a Artwork
	if err := c.call(ctx, http.MethodPut, "/artworks/"+url.PathEscape(id), nil, p, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteArtwork(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/artworks/"+url.PathEscape(id), nil, nil, nil)
}

// ---- categories ----

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	out := []Category{}
	if err := c.call(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var cat Category
	if err := c.call(ctx, http.MethodPost, "/categories", nil, in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	var cat Category
	if err := c.call(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nil, in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil, nil)
}

// ---- contact ----

func (c *Client) SendContact(ctx context.Context, in ContactRequest) error {
	return c.call(ctx, http.MethodPost, "/contact", nil, in, nil)
}

// ---- admin ----

func (c *Client) AdminUsers(ctx context.Context, search string, page, limit int) (*UserPage, error) {
	q := pageValues(page, limit)
	if search != "" {
		q.Set("q", search)
	}
	var p UserPage
	if err := c.call(ctx, http.MethodGet, "/admin/users", q, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ToggleUserStatus(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id)+"/toggle-status", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) AdminArtworks(ctx context.Context, page, limit int) (*AdminArtworkPage, error) {
	var p AdminArtworkPage
	if err := c.call(ctx, http.MethodGet, "/admin/artworks", pageValues(page, limit), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AdminDeleteArtwork(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/admin/artworks/"+url.PathEscape(id), nil, nil, nil)
}
