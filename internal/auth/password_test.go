// internal/auth/password_test.go
package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := VerifyPassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("hunter3", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	for _, hash := range []string{"", "nonsense", "$bcrypt$whatever", "$argon2id$v=19$m=32768,t=3,p=2$notbase64!$x"} {
		_, err := VerifyPassword("pw", hash)
		assert.Error(t, err, hash)
	}
}
