package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Access string

const (
	AccessPublic        Access = "public"
	AccessAuthenticated Access = "authenticated"
	AccessAdmin         Access = "admin"
	AccessInternal      Access = "internal"
)

// View is a navigable page and who may open it.
type View struct {
	Path   string `json:"path"`
	Access Access `json:"access"`
}

type Permission struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Access Access `json:"access"`
}

type PermissionData struct {
	Fallback  string       `json:"fallback"`
	Views     []View       `json:"views"`
	Endpoints []Permission `json:"endpoints"`
}

// FindView reports false for unknown paths, which callers redirect to Fallback.
func (r *PermissionData) FindView(path string) (View, bool) {
	idx := slices.IndexFunc(r.Views, func(v View) bool {
		return v.Path == path
	})

	if idx == -1 {
		return View{}, false
	}

	return r.Views[idx], true
}

// FindPermissions defaults unlisted endpoints to authenticated access.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && rp.Method == method
	})

	if idx == -1 {
		return Permission{Path: path, Method: method, Access: AccessAuthenticated}
	}

	return r.Endpoints[idx]
}

func Get() *PermissionData {
	var permissions PermissionData

	err := json.Unmarshal(permissionsData, &permissions)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	if permissions.Fallback == "" {
		permissions.Fallback = "/"
	}

	log.Info().
		Int("views", len(permissions.Views)).
		Int("endpoints", len(permissions.Endpoints)).
		Msg("Successfully loaded embedded permissions")

	return &permissions
}
