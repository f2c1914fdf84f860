package model

import "purohit/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldUID      = "uid"
	FieldEmail    = "email"
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldIsAdmin  = "is_admin"
	FieldProvider = "provider"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// User is the profile record kept next to the identity. IsAdmin is only
// changed out of band.
type User struct {
	UID      string `db:"uid"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	PhotoURL string `db:"photo_url"`
	Provider string `db:"provider"`
	IsAdmin  bool   `db:"is_admin"`
	model.Metadata
}
