package base64

import (
	stdBase64 "encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed base64 token")

// EncodeJSON marshals v and returns it as unpadded URL-safe base64, suitable
// for opaque query parameters such as page cursors.
func EncodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token: %w", err)
	}

	return stdBase64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeJSON reverses EncodeJSON into v.
func DecodeJSON(token string, v any) error {
	raw, err := stdBase64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return nil
}
