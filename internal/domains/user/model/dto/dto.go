package dto

import (
	"purohit/internal/domains/user/model"
	gDto "purohit/shared/dto"
	gModel "purohit/shared/model"
	"purohit/shared/timezone"
)

// RecordRequest describes the record written on first registration or first
// Google sign-in.
type RecordRequest struct {
	UID      string
	Name     string
	Email    string
	Phone    string
	PhotoURL string
	Provider string
}

func (r *RecordRequest) ToModel() model.User {
	now := timezone.Now()

	return model.User{
		UID:      r.UID,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		PhotoURL: r.PhotoURL,
		Provider: r.Provider,
		IsAdmin:  false,
		Metadata: gModel.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

type ProfileResponse struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photo_url,omitempty"`
	Provider string `json:"provider"`
	IsAdmin  bool   `json:"is_admin"`
	gDto.Metadata
}

func (r *ProfileResponse) FromModel(user model.User) {
	r.UID = user.UID
	r.Name = user.Name
	r.Email = user.Email
	r.Phone = user.Phone
	r.PhotoURL = user.PhotoURL
	r.Provider = user.Provider
	r.IsAdmin = user.IsAdmin
	r.Metadata.FromModel(user.Metadata)
}

// AdminClaimRequest sets or clears the signed admin claim. A null IsAdmin
// removes the claim so the user record decides again.
type AdminClaimRequest struct {
	Email   string `json:"email"    validate:"required,email"`
	IsAdmin *bool  `json:"is_admin"`
}
