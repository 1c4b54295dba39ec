// Package config loads crawler settings from a .env file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL   = "https://atcoder.jp"
	DefaultUserAgent = "atcoder-submissions/1.0 (github.com/pfrederiksen/atcoder-submissions)"
	DefaultDataDir   = "~/.local/share/atcoder-submissions"
)

// Config holds settings shared by all commands. CLI flags override these values.
type Config struct {
	BaseURL         string
	UserAgent       string
	DataDir         string
	RequestInterval time.Duration
	MaxRetries      int
	LogLevel        string
}

// Load reads .env files (when present) and then the environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{
		BaseURL:    strings.TrimRight(getEnv("ATCODER_BASE_URL", DefaultBaseURL), "/"),
		UserAgent:  getEnv("ATCODER_USER_AGENT", DefaultUserAgent),
		DataDir:    getEnv("ATCODER_DATA_DIR", DefaultDataDir),
		MaxRetries: 3,
		LogLevel:   getEnv("ATCODER_LOG_LEVEL", "info"),
	}

	intervalMs, err := getEnvAsInt("ATCODER_REQUEST_INTERVAL_MS", 1000)
	if err != nil {
		return nil, err
	}
	cfg.RequestInterval = time.Duration(intervalMs) * time.Millisecond

	if cfg.MaxRetries, err = getEnvAsInt("ATCODER_MAX_RETRIES", cfg.MaxRetries); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that values are usable
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("ATCODER_BASE_URL must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("ATCODER_DATA_DIR must not be empty")
	}
	if c.RequestInterval < 0 {
		return fmt.Errorf("ATCODER_REQUEST_INTERVAL_MS must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("ATCODER_MAX_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, valueStr)
	}
	return value, nil
}
