package dto

import (
	"purohit/infras/jwt"
	"purohit/internal/domains/session/model"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,notblank"`
	Email    string `json:"email"    validate:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SessionResponse struct {
	User         *model.User `json:"user"`
	IsAdmin      bool        `json:"is_admin"`
	Initializing bool        `json:"initializing"`
}

func (r *SessionResponse) FromState(state model.State) {
	r.User = state.User
	r.IsAdmin = state.IsAdmin
	r.Initializing = state.Initializing
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	IsNewUser    bool            `json:"is_new_user"`
	Message      string          `json:"message"`
	Session      SessionResponse `json:"session"`
}

func (l *LoginResponse) FromAuthenticated(auth model.Authenticated) {
	l.fromTokenPair(auth.Tokens)
	l.IsNewUser = auth.IsNewUser
	l.Message = auth.Message
	l.Session.FromState(auth.State)
}

func (l *LoginResponse) fromTokenPair(tokenPair *jwt.TokenPair) {
	if tokenPair == nil {
		return
	}

	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type GoogleLoginResponse struct {
	URL string `json:"url"`
}
