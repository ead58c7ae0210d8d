package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(42, "seller", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "seller", claims.Role)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, "user", "right-secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", "secret")
	assert.Error(t, err)
}
