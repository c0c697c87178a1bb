package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-123", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-123", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("user-123", "user", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestValidateJWTStripsBearerPrefix(t *testing.T) {
	token, err := GenerateJWT("user-123", "user", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT("Bearer "+token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
	assert.Equal(t, "", ExtractTokenFromHeader("abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
}
