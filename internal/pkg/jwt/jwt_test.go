package jwt_test

import (
	"testing"

	"sipinjam/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := jwt.GenerateAccessToken(42, "sari", "Sari Dewi", "petugas", testSecret, 15)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "sari", claims.Username)
	assert.Equal(t, "Sari Dewi", claims.Nama)
	assert.Equal(t, "petugas", claims.Role)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := jwt.GenerateAccessToken(42, "sari", "Sari Dewi", "petugas", testSecret, 15)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, "another-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := jwt.GenerateAccessToken(42, "sari", "Sari Dewi", "petugas", testSecret, -1)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := jwt.ValidateAccessToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}
