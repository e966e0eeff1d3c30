package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// DefaultPollInterval matches the web client's reconciliation cadence.
	DefaultPollInterval = 30 * time.Second
	// DefaultDebounceDelay is the pause required before a search fires.
	DefaultDebounceDelay = 500 * time.Millisecond
)

type Config struct {
	// APIBaseURL is the backend origin, e.g. https://api.groop.example.
	APIBaseURL string
	// MapsAPIKey authenticates against the external place-search provider.
	MapsAPIKey string

	PollInterval  time.Duration
	DebounceDelay time.Duration
}

// Load reads configuration from the environment. An optional .env file is
// merged in first without overriding variables already set in the process.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:    os.Getenv("VITE_API_BASE_URL"),
		MapsAPIKey:    os.Getenv("VITE_GOOGLE_MAPS_API_KEY"),
		PollInterval:  DefaultPollInterval,
		DebounceDelay: DefaultDebounceDelay,
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("VITE_API_BASE_URL is not set")
	}

	if v := os.Getenv("GROOPSYNC_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid GROOPSYNC_POLL_INTERVAL")
		}
		cfg.PollInterval = d
	}

	if v := os.Getenv("GROOPSYNC_DEBOUNCE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid GROOPSYNC_DEBOUNCE_DELAY")
		}
		cfg.DebounceDelay = d
	}

	return cfg, nil
}
