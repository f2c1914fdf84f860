package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"purohit/internal/domains/booking/model/dto"
	"purohit/internal/domains/booking/validator"
)

var (
	loc = time.FixedZone("IST", 5*60*60+30*60)
	now = time.Date(2026, time.March, 10, 14, 30, 0, 0, loc)
)

func newValidator() *validator.Validator {
	return validator.New(validator.Rules{
		HorizonDays:       365,
		DisposableDomains: []string{"tempmail.com", "mailinator.com", "10minutemail.com"},
	})
}

func validDraft() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		Phone:     "+91 987 6543210",
		PoojaType: "Griha Pravesh",
		Date:      "2026-03-12",
		Time:      "09:00",
		Location:  "Bengaluru",
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	assert.Empty(t, newValidator().Validate(validDraft(), now))
}

func TestValidate_PhoneDigits(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "seven digits", phone: "1234567", valid: true},
		{name: "fifteen digits grouped", phone: "+1234 567 89012345", valid: true},
		{name: "fifteen digits plain", phone: "123456789012345", valid: true},
		{name: "parenthesised country code", phone: "(91) 987-6543210", valid: true},
		{name: "sixteen digits grouped", phone: "+1234 567 890123456"},
		{name: "sixteen digits plain", phone: "1234567890123456"},
		{name: "six digits", phone: "123456"},
	}

	v := newValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.Phone = tt.phone

			errs := v.Validate(draft, now)

			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.Equal(t, "Invalid phone number", errs["phone"])
			}
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *dto.CreateBookingRequest)
		field  string
		want   string
	}{
		{name: "blank name", mutate: func(d *dto.CreateBookingRequest) { d.Name = "   " }, field: "name", want: "Full name is required"},
		{name: "short name", mutate: func(d *dto.CreateBookingRequest) { d.Name = " Al " }, field: "name", want: "Name must be at least 3 characters"},
		{name: "missing email", mutate: func(d *dto.CreateBookingRequest) { d.Email = "" }, field: "email", want: "Email is required"},
		{name: "malformed email", mutate: func(d *dto.CreateBookingRequest) { d.Email = "asha@example" }, field: "email", want: "Invalid email format"},
		{name: "disposable email", mutate: func(d *dto.CreateBookingRequest) { d.Email = "user@mailinator.com" }, field: "email", want: "Disposable email addresses are not allowed"},
		{name: "disposable subdomain", mutate: func(d *dto.CreateBookingRequest) { d.Email = "user@mx.tempmail.com" }, field: "email", want: "Disposable email addresses are not allowed"},
		{name: "missing phone", mutate: func(d *dto.CreateBookingRequest) { d.Phone = "" }, field: "phone", want: "Phone number is required"},
		{name: "letters in phone", mutate: func(d *dto.CreateBookingRequest) { d.Phone = "98765abcde" }, field: "phone", want: "Invalid phone number"},
		{name: "short phone", mutate: func(d *dto.CreateBookingRequest) { d.Phone = "12345" }, field: "phone", want: "Invalid phone number"},
		{name: "missing pooja", mutate: func(d *dto.CreateBookingRequest) { d.PoojaType = "" }, field: "pooja_type", want: "Pooja type is required"},
		{name: "unknown pooja", mutate: func(d *dto.CreateBookingRequest) { d.PoojaType = "Moon Landing" }, field: "pooja_type", want: "Pooja type must be one of the offered services"},
		{name: "missing date", mutate: func(d *dto.CreateBookingRequest) { d.Date = "" }, field: "date", want: "Date is required"},
		{name: "malformed date", mutate: func(d *dto.CreateBookingRequest) { d.Date = "12/03/2026" }, field: "date", want: "Invalid date"},
		{name: "past date", mutate: func(d *dto.CreateBookingRequest) { d.Date = "2026-03-09" }, field: "date", want: "Date cannot be in the past"},
		{name: "beyond horizon", mutate: func(d *dto.CreateBookingRequest) { d.Date = "2027-03-11" }, field: "date", want: "Date cannot be more than 365 days in future"},
		{name: "missing time", mutate: func(d *dto.CreateBookingRequest) { d.Time = "" }, field: "time", want: "Time is required"},
		{name: "malformed time", mutate: func(d *dto.CreateBookingRequest) { d.Time = "9am" }, field: "time", want: "Invalid time"},
		{name: "blank location", mutate: func(d *dto.CreateBookingRequest) { d.Location = "  " }, field: "location", want: "Location is required"},
	}

	v := newValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			errs := v.Validate(draft, now)

			assert.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}
}

func TestValidate_BoundaryDates(t *testing.T) {
	v := newValidator()

	draft := validDraft()
	draft.Date = "2027-03-10"
	assert.Empty(t, v.Validate(draft, now), "last day of the horizon is allowed")

	draft.Date = "2026-03-10"
	draft.Time = "23:59"
	assert.Empty(t, v.Validate(draft, now), "later today is allowed")
}

func TestValidate_TodayInThePast(t *testing.T) {
	draft := validDraft()
	draft.Date = "2026-03-10"
	draft.Time = "10:00"

	errs := newValidator().Validate(draft, now)

	assert.Equal(t, "Time must be in the future for today", errs["time"])
	assert.Len(t, errs, 1)

	draft.Time = "14:30"
	assert.Equal(t, "Time must be in the future for today", newValidator().Validate(draft, now)["time"])
}

func TestValidate_TimeSkippedWhenDateFails(t *testing.T) {
	draft := validDraft()
	draft.Date = "2020-01-01"
	draft.Time = ""

	errs := newValidator().Validate(draft, now)

	assert.Equal(t, "Date cannot be in the past", errs["date"])
	assert.NotContains(t, errs, "time")
}

func TestValidate_AllFieldsReported(t *testing.T) {
	errs := newValidator().Validate(dto.CreateBookingRequest{}, now)

	assert.Equal(t, validator.Errors{
		"name":       "Full name is required",
		"email":      "Email is required",
		"phone":      "Phone number is required",
		"pooja_type": "Pooja type is required",
		"date":       "Date is required",
		"location":   "Location is required",
	}, errs)
}

func TestValidate_Idempotent(t *testing.T) {
	v := newValidator()

	draft := validDraft()
	draft.Email = "user@mailinator.com"
	draft.Date = "2026-03-10"
	draft.Time = "08:00"

	first := v.Validate(draft, now)
	second := v.Validate(draft, now)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestValidate_SpecialRequestsOptional(t *testing.T) {
	draft := validDraft()
	draft.SpecialRequests = ""

	assert.Empty(t, newValidator().Validate(draft, now))
}
