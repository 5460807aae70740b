package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("abcdef")
	require.NoError(t, err)
	assert.NotEqual(t, "abcdef", hash)

	assert.True(t, h.Compare(hash, "abcdef"))
	assert.False(t, h.Compare(hash, "abcdeg"))
	assert.False(t, h.Compare("not-a-hash", "abcdef"))
}

func TestNewBcryptHasher_FallsBackToDefaultCost(t *testing.T) {
	h := NewBcryptHasher(0).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
