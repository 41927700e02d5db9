package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthState_RoundTrip(t *testing.T) {
	state, err := SignOAuthState("secret-1", 42)
	require.NoError(t, err)

	brandID, err := ParseOAuthState("secret-1", state)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), brandID)
}

func TestOAuthState_WrongSecretRejected(t *testing.T) {
	state, err := SignOAuthState("secret-1", 42)
	require.NoError(t, err)

	_, err = ParseOAuthState("secret-2", state)
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestOAuthState_GarbageRejected(t *testing.T) {
	_, err := ParseOAuthState("secret-1", "not-a-jwt")
	assert.ErrorIs(t, err, ErrStateInvalid)

	_, err = ParseOAuthState("secret-1", "")
	assert.ErrorIs(t, err, ErrStateInvalid)
}
