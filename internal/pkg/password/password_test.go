package password_test

import (
	"testing"

	"sipinjam/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("rahasia-betul")
	require.NoError(t, err)
	require.NotEqual(t, "rahasia-betul", hash)

	assert.True(t, password.Verify("rahasia-betul", hash))
	assert.False(t, password.Verify("salah", hash))
	assert.False(t, password.Verify("rahasia-betul", "not-a-hash"))
}

func TestValidate(t *testing.T) {
	assert.False(t, password.Validate(""))
	assert.False(t, password.Validate("1234567"))
	assert.True(t, password.Validate("12345678"))
}
