package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, 24*time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "driver@example.com", "user")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "driver@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestExpiredAccessToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute, 24*time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "driver@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestWrongSecretRejected(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, 24*time.Hour)
	other := NewService("other-secret", 15*time.Minute, 24*time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "driver@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, 24*time.Hour)
	userID := uuid.New()

	token, jti, expiresAt, err := svc.GenerateRefreshToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, jti, claims.ID)

	// Token types do not cross over.
	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashRefreshTokenIsStable(t *testing.T) {
	assert.Equal(t, HashRefreshToken("abc"), HashRefreshToken("abc"))
	assert.NotEqual(t, HashRefreshToken("abc"), HashRefreshToken("abd"))
	assert.Len(t, HashRefreshToken("abc"), 64)
}
