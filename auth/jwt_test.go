package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamboms/kbob-dating-app/models"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{
		UserID: "user-1",
		Email:  "a@example.com",
		Name:   "Alice",
	}

	token, err := IssueToken(testSecret, user)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, &models.User{UserID: "user-1"})
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestParseTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
