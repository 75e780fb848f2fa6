package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvAPIURL, EnvToken, EnvDB, EnvTimeout, EnvLogFile,
		EnvLogLevel, EnvSimilarityThreshold, EnvDebounce,
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "https://learn.example.com")
	t.Setenv(EnvToken, "abc")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvSimilarityThreshold, "90")
	t.Setenv(EnvDebounce, "150ms")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://learn.example.com", cfg.APIURL)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 90, cfg.SimilarityThreshold)
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NoError(t, cfg.Validate())

	api := cfg.API()
	assert.Equal(t, "https://learn.example.com", api.BaseURL)
	assert.Equal(t, "abc", api.Token)
	assert.Equal(t, 5*time.Second, api.Timeout)
}

func TestFromEnv_BadValues(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{EnvTimeout, "soon"},
		{EnvDebounce, "later"},
		{EnvSimilarityThreshold, "high"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.APIURL = "/api" }},
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://x" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"threshold above 100", func(c *Config) { c.SimilarityThreshold = 101 }},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }},
		{"unknown log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvToken+"=from-file\n"+EnvAPIURL+"=http://file\n"), 0o600))

	t.Setenv(EnvAPIURL, "http://already-set")
	os.Unsetenv(EnvToken)

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(EnvToken))
	assert.Equal(t, "http://already-set", os.Getenv(EnvAPIURL))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
