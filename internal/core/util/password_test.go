package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/core/domain"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("should never return the plaintext", func(t *testing.T) {
		digest, err := hasher.Hash("password123")

		assert.NoError(t, err)
		assert.NotEqual(t, "password123", digest)
		assert.True(t, strings.HasPrefix(digest, "$2a$"))
	})

	t.Run("should salt every digest", func(t *testing.T) {
		first, _ := hasher.Hash("password123")
		second, _ := hasher.Hash("password123")

		assert.NotEqual(t, first, second)
		assert.True(t, hasher.Verify("password123", first))
		assert.True(t, hasher.Verify("password123", second))
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		digest, _ := hasher.Hash("password123")

		assert.False(t, hasher.Verify("password124", digest))
	})

	t.Run("should reject a malformed digest", func(t *testing.T) {
		assert.False(t, hasher.Verify("password123", "not-a-digest"))
	})

	t.Run("should fall back to the default cost", func(t *testing.T) {
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	})

	t.Run("should refuse passwords longer than 72 bytes", func(t *testing.T) {
		_, err := hasher.Hash(strings.Repeat("a", 73))

		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)

		_, err = hasher.Hash(strings.Repeat("€", 30))

		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
