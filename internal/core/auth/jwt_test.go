package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "artmarket", TTL: 7 * 24 * time.Hour}
}

func TestIssueAndParse(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("u1")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UID)
	assert.NotEmpty(t, c.ID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), c.ExpiresAt.Time, 5*time.Second)
}

func TestParseExpired(t *testing.T) {
	j := newJWTer()
	j.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	tok, err := j.Issue("u1")
	require.NoError(t, err)

	j.now = nil
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseWrongSecretOrIssuer(t *testing.T) {
	tok, err := newJWTer().Issue("u1")
	require.NoError(t, err)

	other := newJWTer()
	other.Secret = []byte("different")
	_, err = other.Parse(tok)
	assert.Error(t, err)

	other = newJWTer()
	other.Issuer = "someone-else"
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsNoneAlg(t *testing.T) {
	claims := Claims{UID: "u1", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "artmarket",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = newJWTer().Parse(tok)
	assert.Error(t, err)
}

func TestIssueRequiresUID(t *testing.T) {
	_, err := newJWTer().Issue("")
	assert.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), &Identity{UserID: "u1", Role: "artist"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
	assert.True(t, id.HasRole("artist", "super_admin"))
	assert.False(t, id.HasRole("super_admin"))
}

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "t1", time.Hour))
	revoked, _ = r.IsRevoked(ctx, "t1")
	assert.True(t, revoked)

	require.NoError(t, r.Revoke(ctx, "t2", -time.Second))
	revoked, _ = r.IsRevoked(ctx, "t2")
	assert.False(t, revoked)
}
