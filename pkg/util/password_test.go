package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("securepass123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "securepass123", hash)
	assert.Contains(t, hash, "$2a$")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("securepass123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "securepass123"))
	assert.False(t, VerifyPassword(hash, "wrongpass"))
	assert.False(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword("invalid-hash", "securepass123"))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	hash1, err := HashPassword("securepass123")
	require.NoError(t, err)
	hash2, err := HashPassword("securepass123")
	require.NoError(t, err)

	// 같은 비밀번호라도 솔트가 달라 해시는 다르다
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, VerifyPassword(hash1, "securepass123"))
	assert.True(t, VerifyPassword(hash2, "securepass123"))
}
