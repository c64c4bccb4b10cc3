package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewToken(t *testing.T) {
	raw, hash, err := NewToken()
	require.NoError(t, err)
	assert.Len(t, raw, 2*tokenBytes)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken(raw))
	assert.Equal(t, hash, HashToken(" "+raw+" "))

	other, _, err := NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, hasher.Verify(hash, "s3cret-pass"))
	assert.False(t, hasher.Verify(hash, "wrong"))
}

func TestPasswordHasherRejectsLongPasswords(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	_, err := hasher.Hash(strings.Repeat("x", 73))
	assert.True(t, errors.Is(err, ErrPasswordTooLong))
}
