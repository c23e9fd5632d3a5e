package jwthelper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("test-signing-key")

func TestRoundTrip(t *testing.T) {
	token, err := GenerateToken(key, 42, "curl/8.0")
	require.NoError(t, err)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "curl/8.0", claims.UserAgent)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := GenerateToken(key, 42, "")
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-key"), valid)
	assert.Error(t, err)

	_, err = ParseToken(key, "not.a.token")
	assert.Error(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		UserID:           42,
	}).SignedString(key)
	require.NoError(t, err)
	_, err = ParseToken(key, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, UserClaims{UserID: 42}).SignedString(key)
	require.NoError(t, err)
	_, err = ParseToken(key, wrongAlg)
	assert.Error(t, err)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{}).SignedString(key)
	require.NoError(t, err)
	_, err = ParseToken(key, anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
