// Package password hashes and checks email sign-in secrets with bcrypt.
package password

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinLength is the shortest password the identity provider accepts.
const MinLength = 6

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrWeakPassword    = fmt.Errorf("password should be at least %d characters", MinLength)
)

func Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptyPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify returns ErrInvalidPassword for a mismatch or missing input. Any
// other error means the stored hash is unusable.
func Verify(secret, hash string) error {
	if secret == "" || hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidPassword
	default:
		return fmt.Errorf("failed to verify password: %w", err)
	}
}

// CheckStrength counts runes, not bytes.
func CheckStrength(secret string) error {
	if utf8.RuneCountInString(secret) < MinLength {
		return ErrWeakPassword
	}

	return nil
}
