package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1", "customer", AccessToken, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenUniqueness(t *testing.T) {
	// Registered claim timestamps are second-granular; the jti must keep two
	// tokens minted back to back from colliding.
	first, err := GenerateToken("user-1", "customer", RefreshToken, testSecret, time.Hour)
	require.NoError(t, err)
	second, err := GenerateToken("user-1", "customer", RefreshToken, testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", "customer", AccessToken, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-1", "customer", AccessToken, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.Error(t, err)
}

func TestIsTokenValid(t *testing.T) {
	access, err := GenerateToken("user-1", "customer", AccessToken, testSecret, time.Hour)
	require.NoError(t, err)

	assert.True(t, IsTokenValid(access, testSecret, AccessToken))
	assert.False(t, IsTokenValid(access, testSecret, RefreshToken))
	assert.False(t, IsTokenValid(access, "other-secret", AccessToken))
	assert.False(t, IsTokenValid("garbage", testSecret, AccessToken))
}
