package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/auth"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("Secret123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "Secret123", hash)

	assert.NoError(t, auth.ComparePassword(hash, "Secret123"))
	assert.Error(t, auth.ComparePassword(hash, "Secret124"))
}

func TestHashPasswordOutOfRangeCost(t *testing.T) {
	t.Parallel()

	// an out-of-range cost must still produce a verifiable hash
	hash, err := auth.HashPassword("Secret123", 99)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(hash, "Secret123"))
}
