package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimFromFlags(t *testing.T) {
	t.Run("grant", func(t *testing.T) {
		claim, err := claimFromFlags(true, false, false)
		require.NoError(t, err)
		require.NotNil(t, claim)
		assert.True(t, *claim)
	})

	t.Run("revoke", func(t *testing.T) {
		claim, err := claimFromFlags(false, true, false)
		require.NoError(t, err)
		require.NotNil(t, claim)
		assert.False(t, *claim)
	})

	t.Run("clear", func(t *testing.T) {
		claim, err := claimFromFlags(false, false, true)
		require.NoError(t, err)
		assert.Nil(t, claim)
	})

	t.Run("none or many", func(t *testing.T) {
		_, err := claimFromFlags(false, false, false)
		require.Error(t, err)

		_, err = claimFromFlags(true, true, false)
		require.Error(t, err)
	})
}

func TestRunRequiresEmail(t *testing.T) {
	err := run([]string{"--grant"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email")
}
