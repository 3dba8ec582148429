package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The stored value is a bcrypt hash, not the plaintext
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pass"))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("same-pass")
	require.NoError(t, err)
	h2, err := HashPassword("same-pass")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
