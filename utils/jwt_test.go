package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

// Harus jalan sebelum test lain yang menyentuh secret: secret dibaca sekali
// saat pemakaian pertama, dan di sini dipastikan nilai environment yang
// dipakai, bukan default development.
func TestSecretReadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret-for-tests")

	token, err := GenerateToken(7, "ADMIN")
	assert.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("env-secret-for-tests"), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "KASIR")
	assert.NoError(t, err)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "KASIR", claims.Role)
	assert.Equal(t, "Ordira", claims.Issuer)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken(1, "ADMIN")
	assert.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}

func TestBlacklistedTokenRejected(t *testing.T) {
	token, err := GenerateToken(3, "KOKI")
	assert.NoError(t, err)

	_, err = ParseToken(token)
	assert.NoError(t, err)

	BlacklistToken(token)
	_, err = ParseToken(token)
	assert.Error(t, err)
}
