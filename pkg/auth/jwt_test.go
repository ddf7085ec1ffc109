package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTValidator_RoundTrip(t *testing.T) {
	v, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "sol-backend"})
	require.NoError(t, err)

	token, err := v.GenerateToken("jane@example.com")
	require.NoError(t, err)

	claims, err := v.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestJWTValidator_Rejects(t *testing.T) {
	v, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "sol-backend"})
	require.NoError(t, err)

	other, err := NewJWTValidator(JWTConfig{SecretKey: "other", Issuer: "sol-backend"})
	require.NoError(t, err)
	foreign, err := other.GenerateToken("jane@example.com")
	require.NoError(t, err)

	_, err = v.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sol-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)

	wrongIssuer, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "someone-else"})
	require.NoError(t, err)
	token, err := wrongIssuer.GenerateToken("jane@example.com")
	require.NoError(t, err)
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = v.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestUserContext(t *testing.T) {
	_, err := GetUserFromContext(context.Background())
	assert.Error(t, err)

	ctx := SetUserInContext(context.Background(), &UserContext{Email: "jane@example.com"})
	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
}
