package base64_test

import (
	"errors"
	"purohit/shared/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

func TestEncodeDecodeJSON(t *testing.T) {
	in := cursor{CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), ID: "b1"}

	token, err := base64.EncodeJSON(in)
	require.NoError(t, err)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	var out cursor
	require.NoError(t, base64.DecodeJSON(token, &out))
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "%%%"},
		{name: "not json", token: "bm90LWpzb24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out cursor
			err := base64.DecodeJSON(tt.token, &out)

			assert.True(t, errors.Is(err, base64.ErrMalformed))
		})
	}
}
