// Package timezone pins wall-clock time to APP_TIMEZONE (an IANA name such as
// "Asia/Kolkata"). Booking dates and times are interpreted in this zone.
package timezone

import (
	"purohit/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var location = sync.OnceValue(func() *time.Location {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
})

// GetLocation returns the application timezone.
func GetLocation() *time.Location {
	return location()
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(location())
}

// Format formats t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(location()).Format(layout)
}

// StartOfDay returns midnight of the calendar day t falls on, in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
