package dto

import (
	"purohit/infras/jwt"
	"purohit/infras/oauth"
	"purohit/internal/domains/identity/model"
	gModel "purohit/shared/model"
	"purohit/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

// User is the provider's view of an authenticated account.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Provider    string `json:"provider"`
}

func (u *User) FromModel(identity model.Identity) {
	u.UID = identity.UID
	u.Email = identity.Email
	u.DisplayName = identity.DisplayName
	u.PhotoURL = identity.PhotoURL
	u.Provider = identity.Provider
}

// Credential is the result of a successful sign-in or sign-up.
type Credential struct {
	User      User
	Tokens    *jwt.TokenPair
	IsNewUser bool
}

// PopupResult is what the consent screen redirect carries back.
type PopupResult struct {
	State string `json:"state"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func NewPasswordIdentity(email, hash string) model.Identity {
	now := timezone.Now()

	return model.Identity{
		UID:          uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: &hash,
		Provider:     model.ProviderPassword,
		Metadata:     gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

func NewGoogleIdentity(profile oauth.Profile) model.Identity {
	now := timezone.Now()
	googleID := profile.Subject

	return model.Identity{
		UID:         uuid.NewString(),
		Email:       NormalizeEmail(profile.Email),
		DisplayName: profile.Name,
		PhotoURL:    profile.Picture,
		Provider:    model.ProviderGoogle,
		GoogleID:    &googleID,
		Metadata:    gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UpdateDisplayName struct {
	DisplayName string `db:"display_name"`
}
