package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purohit/permissions"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.Equal(t, "/", data.Fallback)

	tests := []struct {
		path   string
		access permissions.Access
		found  bool
	}{
		{path: "/", access: permissions.AccessPublic, found: true},
		{path: "/book-pooja", access: permissions.AccessPublic, found: true},
		{path: "/my-bookings", access: permissions.AccessAuthenticated, found: true},
		{path: "/admin-bookings", access: permissions.AccessAdmin, found: true},
		{path: "/nowhere"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			view, found := data.FindView(tt.path)

			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.access, view.Access)
		})
	}
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.Equal(t, permissions.AccessAdmin, data.FindPermissions("/v1/bookings", "GET").Access)
	assert.Equal(t, permissions.AccessAuthenticated, data.FindPermissions("/v1/bookings", "POST").Access)
	assert.Equal(t, permissions.AccessPublic, data.FindPermissions("/v1/contact", "POST").Access)
	assert.Equal(t, permissions.AccessInternal, data.FindPermissions("/v1/internal/admin-claims", "PUT").Access)
	assert.Equal(t, permissions.AccessAuthenticated, data.FindPermissions("/v1/unlisted", "DELETE").Access)
}
