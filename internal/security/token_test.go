package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asgsolar/luxclient/internal/security"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := security.TokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiry_NoClaim(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{Subject: "user-1"})

	_, err := security.TokenExpiry(token)
	assert.ErrorIs(t, err, security.ErrNoExpiry)
}

func TestTokenExpiry_Opaque(t *testing.T) {
	_, err := security.TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	past := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))})
	future := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))})

	assert.True(t, security.TokenExpired(past, now))
	assert.False(t, security.TokenExpired(future, now))

	// Opaque tokens and JWTs without exp are never reported expired:
	// only the server can judge them.
	assert.False(t, security.TokenExpired("opaque-refresh-token", now))
	noExp := signedToken(t, jwt.RegisteredClaims{Subject: "user-1"})
	assert.False(t, security.TokenExpired(noExp, now))
}
