// Package config resolves quizdesk settings from defaults, a .env file,
// environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/attempt"
	"github.com/abhisek/quizdesk/internal/search"
)

// Environment variable names.
const (
	EnvAPIURL              = "QUIZDESK_API_URL"
	EnvToken               = "QUIZDESK_TOKEN"
	EnvDB                  = "QUIZDESK_DB"
	EnvTimeout             = "QUIZDESK_TIMEOUT"
	EnvLogFile             = "QUIZDESK_LOG_FILE"
	EnvLogLevel            = "QUIZDESK_LOG_LEVEL"
	EnvSimilarityThreshold = "QUIZDESK_SIMILARITY_THRESHOLD"
	EnvDebounce            = "QUIZDESK_DEBOUNCE"
)

// Config holds all client configuration.
type Config struct {
	// APIURL is the platform base URL. Default: http://localhost:8080.
	APIURL string

	// Token is the session JWT sent as the "token" cookie.
	Token string

	// DBPath overrides the local database location.
	DBPath string

	// Timeout bounds a single API request. Default: 15s.
	Timeout time.Duration

	// LogFile overrides the log location. "-" logs to stderr.
	LogFile  string
	LogLevel string

	// SimilarityThreshold is the percentage an open answer must reach.
	SimilarityThreshold int

	// Debounce is the typing pause before search suggestions refresh.
	Debounce time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIURL:              api.DefaultConfig().BaseURL,
		Timeout:             api.DefaultConfig().Timeout,
		LogLevel:            "info",
		SimilarityThreshold: attempt.DefaultSimilarityThreshold,
		Debounce:            search.DefaultDebounce,
	}
}

// LoadDotEnv loads variables from the given .env files (default: ./.env)
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv(EnvDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		cfg.Debounce = d
	}
	if v := os.Getenv(EnvSimilarityThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSimilarityThreshold, err)
		}
		cfg.SimilarityThreshold = n
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", EnvAPIURL, c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvTimeout)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %d", EnvSimilarityThreshold, c.SimilarityThreshold)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%s must not be negative", EnvDebounce)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	return nil
}

// API returns the REST client settings.
func (c Config) API() api.Config {
	cfg := api.DefaultConfig()
	cfg.BaseURL = c.APIURL
	cfg.Token = c.Token
	cfg.Timeout = c.Timeout
	return cfg
}
