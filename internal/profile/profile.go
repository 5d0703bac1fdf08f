// Package profile holds runtime configuration, loaded from the environment.
package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Profile is the configuration for the bot.
type Profile struct {
	// Data is the directory holding the answers database.
	Data string
	// ShowsCSV and FlightsCSV point at the tabular data sources.
	ShowsCSV   string
	FlightsCSV string

	// DefaultFlightZone fills in when a flight row has no timezone.
	DefaultFlightZone string
	// UserZone anchors "today" for whoever is asking.
	UserZone string
	// Locale is the default answer locale.
	Locale string

	// TelegramToken enables the Telegram host when set.
	TelegramToken string
	// HTTPAddr enables the HTTP host when set, e.g. ":8080".
	HTTPAddr string

	// VocabRefresh is the background vocabulary refresh interval.
	VocabRefresh time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads the profile from the environment, with .env support.
func Load() *Profile {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	p := &Profile{
		Data:              env("TMBOT_DATA", filepath.Join(home, ".tmbot3000")),
		ShowsCSV:          env("TMBOT_SHOWS_CSV", "shows.csv"),
		FlightsCSV:        env("TMBOT_FLIGHTS_CSV", "flights.csv"),
		DefaultFlightZone: env("TMBOT_DEFAULT_FLIGHT_TZ", "Australia/Sydney"),
		UserZone:          env("TMBOT_USER_TZ", "Australia/Sydney"),
		Locale:            env("TMBOT_LOCALE", "en"),
		TelegramToken:     os.Getenv("TMBOT_TELEGRAM_TOKEN"),
		HTTPAddr:          os.Getenv("TMBOT_HTTP_ADDR"),
		VocabRefresh:      5 * time.Minute,
		LogLevel:          env("TMBOT_LOG_LEVEL", "info"),
	}
	if secs, err := strconv.Atoi(os.Getenv("TMBOT_VOCAB_REFRESH_SECONDS")); err == nil && secs > 0 {
		p.VocabRefresh = time.Duration(secs) * time.Second
	}
	return p
}

// DBPath is the answers database location inside the data directory.
func (p *Profile) DBPath() string {
	return filepath.Join(p.Data, "answers.db")
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
