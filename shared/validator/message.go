package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"notblank": "{field} is required",
	"email":    "{field} must be a valid email address",
	"oneof":    "{field} must be one of {param}",
	"min":      "{field} must be at least {param} characters",
	"max":      "{field} must be at most {param} characters",
	"datetime": "{field} must match {param}",
}

// message renders the first tag with a known template, falling back to the
// library's own text.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template)
	}

	return fieldErrors.Error()
}
