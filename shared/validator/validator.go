// Package validator decodes JSON request bodies and checks them against
// go-playground struct tags. Failures come back as 400 errors naming the
// first offending field by its json name.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"purohit/shared/failure"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}

	return v
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}

func notBlank(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)

	return ok && strings.TrimSpace(str) != ""
}

// Validate decodes r into data and checks its tags.
func Validate[T any](r io.Reader, data *T) error {
	if err := Decode(r, data); err != nil {
		return err
	}

	return ValidateStruct(data)
}

// Decode only decodes the JSON body; callers that run their own field rules use it.
func Decode[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateStruct[T any](data *T) error {
	return badRequest(validate.Struct(data))
}

func ValidateVar(field any, tag string) error {
	return badRequest(validate.Var(field, tag))
}

func badRequest(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
}
