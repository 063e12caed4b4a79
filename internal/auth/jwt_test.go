package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateAccessToken("user-1", "tutor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "tutor", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := manager.GenerateAccessToken("user-1", "student")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err, "token signed with a different secret must be rejected")
}

func TestJWTExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateAccessToken("user-1", "student")
	require.NoError(t, err)

	_, err = manager.ParseAndValidate(token)
	assert.Error(t, err, "expired token must be rejected")
}

func TestJWTTampered(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateAccessToken("user-1", "student")
	require.NoError(t, err)

	_, err = manager.ParseAndValidate(token + "x")
	assert.Error(t, err, "tampered token must be rejected")
}
