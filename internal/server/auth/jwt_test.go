package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", "a@example.com", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)

	id, err := GetUserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", "", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_Invalid(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", "", secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("other"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = ParseToken("garbage", secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// без UserID
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(noUser, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
