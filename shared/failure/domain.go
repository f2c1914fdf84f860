package failure

import (
	"errors"
	"net/http"
)

type AuthKind int

const (
	AuthOther AuthKind = iota
	AuthInvalidCredential
	AuthUserNotFound
	AuthPopupClosed
	AuthAccountConflict
	AuthEmailInUse
	AuthWeakPassword
	AuthInvalidEmail
)

var authMessages = map[AuthKind]string{
	AuthOther:             "Authentication failed",
	AuthInvalidCredential: "Incorrect password",
	AuthUserNotFound:      "User not found",
	AuthPopupClosed:       "Google sign-in was canceled",
	AuthAccountConflict:   "Account exists with different credential",
	AuthEmailInUse:        "Email already in use",
	AuthWeakPassword:      "Weak password",
	AuthInvalidEmail:      "Invalid email address",
}

var authCodes = map[AuthKind]int{
	AuthOther:             http.StatusUnauthorized,
	AuthInvalidCredential: http.StatusUnauthorized,
	AuthUserNotFound:      http.StatusUnauthorized,
	AuthPopupClosed:       http.StatusBadRequest,
	AuthAccountConflict:   http.StatusConflict,
	AuthEmailInUse:        http.StatusConflict,
	AuthWeakPassword:      http.StatusBadRequest,
	AuthInvalidEmail:      http.StatusBadRequest,
}

func (k AuthKind) String() string {
	return authMessages[k]
}

// AuthError is an identity provider failure. Error returns the user facing
// message for the kind; the provider error stays reachable through Unwrap.
type AuthError struct {
	Kind AuthKind
	Err  error
}

func NewAuthError(kind AuthKind, err error) error {
	return &AuthError{Kind: kind, Err: err}
}

func (e *AuthError) Error() string {
	return e.Kind.String()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) StatusCode() int {
	return authCodes[e.Kind]
}

// IsAuthKind reports whether err carries an AuthError of the given kind.
func IsAuthKind(err error, kind AuthKind) bool {
	var authErr *AuthError

	return errors.As(err, &authErr) && authErr.Kind == kind
}

// ValidationError holds one message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "Please fix the form errors"
}

func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// PersistenceError is a failed booking write. The generated reference is kept
// so it can be quoted to support.
type PersistenceError struct {
	Reference string
	Err       error
}

func NewPersistenceError(reference string, err error) error {
	return &PersistenceError{Reference: reference, Err: err}
}

func (e *PersistenceError) Error() string {
	return "Booking Failed"
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) StatusCode() int {
	return http.StatusInternalServerError
}

// NotificationError is a best-effort delivery failure. It never reaches an
// HTTP response; it becomes a warning advisory.
type NotificationError struct {
	Channel string
	Message string
	Err     error
}

func NewNotificationError(channel, message string, err error) error {
	return &NotificationError{Channel: channel, Message: message, Err: err}
}

func (e *NotificationError) Error() string {
	return e.Message
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func (e *NotificationError) StatusCode() int {
	return http.StatusBadGateway
}

// AuthorizationError is an access gate denial.
type AuthorizationError struct {
	Code     int
	Message  string
	Redirect string
}

func NewAuthorizationError(code int, message, redirect string) error {
	return &AuthorizationError{Code: code, Message: message, Redirect: redirect}
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func (e *AuthorizationError) StatusCode() int {
	return e.Code
}
