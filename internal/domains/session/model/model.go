package model

import "purohit/infras/jwt"

// User is the signed-in identity as the rest of the app sees it.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"is_admin"`
}

// State is what observers of a session see. User is nil when signed out.
type State struct {
	User         *User `json:"user"`
	IsAdmin      bool  `json:"is_admin"`
	RolePending  bool  `json:"role_pending"`
	Initializing bool  `json:"initializing"`
}

func (s State) SignedIn() bool {
	return s.User != nil
}

// WithRole returns a copy with the confirmed role applied.
func (s State) WithRole(isAdmin bool) State {
	s.IsAdmin = isAdmin
	s.RolePending = false

	if s.User != nil {
		user := *s.User
		user.IsAdmin = isAdmin
		s.User = &user
	}

	return s
}

const (
	MessageLoggedIn       = "Logged in successfully"
	MessageGoogleLoggedIn = "Logged in with Google"
	MessageGoogleCreated  = "Account created via Google"
	MessageRegistered     = "Registered successfully"
	MessageLoggedOut      = "Logged out"
)

// Authenticated is returned by every successful sign-in path.
type Authenticated struct {
	State     State
	Tokens    *jwt.TokenPair
	IsNewUser bool
	Message   string
}
