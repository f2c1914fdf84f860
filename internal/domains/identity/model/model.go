package model

import "purohit/shared/model"

const (
	TableName  = "identities"
	EntityName = "identity"

	FieldUID          = "uid"
	FieldEmail        = "email"
	FieldDisplayName  = "display_name"
	FieldGoogleID     = "google_id"
	FieldAdminClaim   = "admin_claim"
	FieldPasswordHash = "password_hash"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// ClaimAdmin is the custom claim name carried by id tokens.
const ClaimAdmin = "isAdmin"

type Identity struct {
	UID          string  `db:"uid"`
	Email        string  `db:"email"`
	PasswordHash *string `db:"password_hash"`
	DisplayName  string  `db:"display_name"`
	PhotoURL     string  `db:"photo_url"`
	Provider     string  `db:"provider"`
	GoogleID     *string `db:"google_id"`
	AdminClaim   *bool   `db:"admin_claim"`
	model.Metadata
}

// CustomClaims returns the claims embedded into id tokens. A nil admin claim
// is left out entirely.
func (i Identity) CustomClaims() map[string]any {
	claims := map[string]any{
		"email": i.Email,
		"name":  i.DisplayName,
	}

	if i.AdminClaim != nil {
		claims[ClaimAdmin] = *i.AdminClaim
	}

	return claims
}

type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventProfileUpdated EventType = "profile_updated"
	EventClaimsUpdated  EventType = "claims_updated"
)

// Event is one entry of the identity change stream.
type Event struct {
	Type    EventType `json:"type"`
	UID     string    `json:"uid"`
	TokenID string    `json:"token_id,omitempty"`
}
