// Package validator checks booking drafts field by field. It has no side
// effects and never touches the network.
package validator

import (
	"errors"
	"fmt"
	"purohit/internal/domains/booking/model"
	"purohit/internal/domains/booking/model/dto"
	"purohit/shared/timezone"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldPoojaType = "pooja_type"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldLocation  = "location"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{3,8}$`)
)

var messages = map[string]map[string]string{
	FieldName: {
		"notblank":    "Full name is required",
		"trimmed_min": "Name must be at least 3 characters",
	},
	FieldEmail: {
		"notblank":       "Email is required",
		"email_format":   "Invalid email format",
		"not_disposable": "Disposable email addresses are not allowed",
	},
	FieldPhone: {
		"notblank":   "Phone number is required",
		"phone_intl": "Invalid phone number",
	},
	FieldPoojaType: {
		"notblank":   "Pooja type is required",
		"pooja_type": "Pooja type must be one of the offered services",
	},
	FieldDate: {
		"notblank": "Date is required",
		"datetime": "Invalid date",
	},
	FieldTime: {
		"notblank": "Time is required",
		"datetime": "Invalid time",
	},
	FieldLocation: {
		"notblank": "Location is required",
	},
}

const (
	messageDatePast   = "Date cannot be in the past"
	messageDateFar    = "Date cannot be more than %d days in future"
	messageTimeFuture = "Time must be in the future for today"
)

// Errors maps a field name to its message. Empty means valid.
type Errors map[string]string

type Rules struct {
	HorizonDays       int
	DisposableDomains []string
	Catalog           []string
}

type Validator struct {
	validate *val.Validate
	rules    Rules
}

func New(rules Rules) *Validator {
	if len(rules.Catalog) == 0 {
		rules.Catalog = model.PoojaCatalog
	}

	v := &Validator{validate: val.New(), rules: rules}

	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		return name
	})

	register := map[string]val.Func{
		"notblank":       notBlank,
		"trimmed_min":    trimmedMin,
		"email_format":   emailFormat,
		"phone_intl":     phoneIntl,
		"not_disposable": v.notDisposable,
		"pooja_type":     v.poojaType,
	}

	for tag, fn := range register {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return v
}

// Validate checks every field on every call. The time check is skipped when
// the date already failed.
func (v *Validator) Validate(draft dto.CreateBookingRequest, now time.Time) Errors {
	result := Errors{}

	var fieldErrors val.ValidationErrors
	if err := v.validate.Struct(draft); errors.As(err, &fieldErrors) {
		for _, fieldErr := range fieldErrors {
			if _, seen := result[fieldErr.Field()]; seen {
				continue
			}

			result[fieldErr.Field()] = messages[fieldErr.Field()][fieldErr.Tag()]
		}
	}

	if _, failed := result[FieldDate]; failed {
		delete(result, FieldTime)

		return result
	}

	date, _ := time.ParseInLocation(dateLayout, draft.Date, now.Location())
	today := timezone.StartOfDay(now)

	switch {
	case date.Before(today):
		result[FieldDate] = messageDatePast
	case date.After(today.AddDate(0, 0, v.rules.HorizonDays)):
		result[FieldDate] = fmt.Sprintf(messageDateFar, v.rules.HorizonDays)
	}

	if _, failed := result[FieldDate]; failed {
		delete(result, FieldTime)

		return result
	}

	if _, failed := result[FieldTime]; failed || !date.Equal(today) {
		return result
	}

	clock, _ := time.ParseInLocation(timeLayout, draft.Time, now.Location())
	scheduled := today.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)

	if !scheduled.After(now) {
		result[FieldTime] = messageTimeFuture
	}

	return result
}

func notBlank(fl val.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func trimmedMin(fl val.FieldLevel) bool {
	minLength, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return len([]rune(strings.TrimSpace(fl.Field().String()))) >= minLength
}

func emailFormat(fl val.FieldLevel) bool {
	return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func phoneIntl(fl val.FieldLevel) bool {
	return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func (v *Validator) notDisposable(fl val.FieldLevel) bool {
	_, domain, found := strings.Cut(strings.TrimSpace(fl.Field().String()), "@")
	if !found {
		return true
	}

	domain = strings.ToLower(domain)

	return !slices.ContainsFunc(v.rules.DisposableDomains, func(disposable string) bool {
		disposable = strings.ToLower(strings.TrimSpace(disposable))

		return disposable != "" && strings.Contains(domain, disposable)
	})
}

func (v *Validator) poojaType(fl val.FieldLevel) bool {
	return slices.Contains(v.rules.Catalog, strings.TrimSpace(fl.Field().String()))
}
