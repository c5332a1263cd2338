package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("user-123", domain.RoleAgent)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID)
	require.Equal(t, domain.RoleAgent, claims.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)
	other := NewTokenManager("secret-b", 60)

	token, _, err := tm.GenerateToken("user-123", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	_, err := tm.ParseToken("not.a.token")
	require.Error(t, err)
}

func TestPasswordHashAndCompare(t *testing.T) {
	hashed, err := HashPassword("Sup3rSecret!", 4)
	require.NoError(t, err)
	require.NotEqual(t, "Sup3rSecret!", hashed)

	require.NoError(t, ComparePassword(hashed, "Sup3rSecret!"))
	require.Error(t, ComparePassword(hashed, "wrong-password"))
}
