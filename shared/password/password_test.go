package password_test

import (
	"purohit/shared/password"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("om-namah-42")
	require.NoError(t, err)
	assert.NotEqual(t, "om-namah-42", hash)

	assert.NoError(t, password.Verify("om-namah-42", hash))
	assert.ErrorIs(t, password.Verify("wrong-secret", hash), password.ErrInvalidPassword)
}

func TestHashSaltsEachCall(t *testing.T) {
	first, err := password.Hash("same-secret")
	require.NoError(t, err)

	second, err := password.Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := password.Hash("")

	assert.ErrorIs(t, err, password.ErrEmptyPassword)
}

func TestVerifyMissingInput(t *testing.T) {
	assert.ErrorIs(t, password.Verify("", "$2a$10$abc"), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("secret", ""), password.ErrInvalidPassword)
}

func TestVerifyMalformedHash(t *testing.T) {
	err := password.Verify("secret", "not-a-bcrypt-hash")

	require.Error(t, err)
	assert.NotErrorIs(t, err, password.ErrInvalidPassword)
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		weak   bool
	}{
		{"too short", "abc12", true},
		{"exactly minimum", "abc123", false},
		{"multibyte runes counted once", "ॐॐॐॐॐ", true},
		{"six multibyte runes", "ॐॐॐॐॐॐ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.CheckStrength(tt.secret)

			if tt.weak {
				assert.ErrorIs(t, err, password.ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
