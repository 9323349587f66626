package security

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIdentityToken(t *testing.T) {
	secret := []byte("test-signing-secret")
	base64Secret := base64.StdEncoding.EncodeToString(secret)

	identity := Identity{ID: 42, UniqueName: "supervisor", Role: "admin"}
	tokenStr, err := CreateIdentityToken(identity, base64Secret, 3600)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)

	assert.Equal(t, 42, claims.Identity.ID)
	assert.Equal(t, "supervisor", claims.UniqueName)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "warepulse", claims.Issuer)
}

func TestCreateIdentityTokenInvalidSecret(t *testing.T) {
	_, err := CreateIdentityToken(Identity{ID: 1}, "not base64!!!", 3600)
	assert.Error(t, err)
}
