package timezone

import (
	"sync"
	"time"
	"todoapi/config"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
	loadOnce    sync.Once
)

func location() *time.Location {
	loadOnce.Do(func() {
		appLocation = Load(config.Get().App.Timezone)
	})

	return appLocation
}

// Load resolves an IANA zone name, falling back to UTC when the name is empty or unknown.
func Load(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")

		return time.UTC
	}

	log.Info().Str("timezone", name).Msg("Application timezone initialized")

	return loc
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(location())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	return location()
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
