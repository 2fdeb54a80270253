package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	ok, err := CheckPasswordHash("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPasswordHash("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPasswordHash("s3cret", "not-a-hash")
	assert.Error(t, err)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)

	pair, err := issuer.Issue(42, true)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := issuer.Parse(pair.AccessToken, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.True(t, claims.IsAdmin)

	refresh, err := issuer.Parse(pair.RefreshToken, TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, refresh.Type)
}

func TestTokenIssuer_RejectsWrongType(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	pair, err := issuer.Issue(1, false)
	require.NoError(t, err)

	_, err = issuer.Parse(pair.RefreshToken, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	pair, err := NewTokenIssuer("one", time.Minute, time.Hour).Issue(1, false)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Minute, time.Hour).Parse(pair.AccessToken, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	pair, err := issuer.Issue(1, false)
	require.NoError(t, err)

	_, err = issuer.Parse(pair.AccessToken, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse(pair.RefreshToken, TokenRefresh)
	assert.NoError(t, err)
}
