package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(15 * time.Minute)
	tok, err := NewAccessToken(42, "seller", exp, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "seller", claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(1, "user", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, secret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(1, "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, []byte("other"))
	require.Error(t, err)
}

func TestUserID_BadSubject(t *testing.T) {
	t.Parallel()

	for _, sub := range []string{"", "0", "abc", "-3"} {
		c := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		_, err := c.UserID()
		assert.ErrorIs(t, err, ErrInvalidSubject, sub)
	}
}
