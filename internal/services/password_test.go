package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("Secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret1", digest)
	assert.True(t, CheckPassword("Secret1", digest))
	assert.False(t, CheckPassword("secret1", digest))
	assert.False(t, CheckPassword("", digest))
}

func TestCheckPassword_BadDigest(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("Secret1", "not-a-bcrypt-digest"))
}
