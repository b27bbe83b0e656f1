package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev-station-service/internal/pkg/auth"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := auth.NewTokenService("secret", time.Hour, "charging-station-api", "charging-station-app")

	token, err := svc.GenerateToken("user-1", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "charging-station-api", claims.Issuer)
}

func TestTokenService_RejectsEmptyUser(t *testing.T) {
	svc := auth.NewTokenService("secret", time.Hour, "", "")

	_, err := svc.GenerateToken("", "user")
	assert.Error(t, err)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenService("secret-a", time.Hour, "iss", "aud")
	verifier := auth.NewTokenService("secret-b", time.Hour, "iss", "aud")

	token, err := issuer.GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsWrongAudience(t *testing.T) {
	issuer := auth.NewTokenService("secret", time.Hour, "iss", "aud-a")
	verifier := auth.NewTokenService("secret", time.Hour, "iss", "aud-b")

	token, err := issuer.GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := auth.NewTokenService("secret", time.Nanosecond, "iss", "aud")

	token, err := svc.GenerateToken("user-1", "user")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := auth.NewTokenService("secret", time.Hour, "iss", "aud")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
