package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Runtime
	Env      string
	LogLevel string

	// Server
	Port int

	// Analysis
	TopSize int
	Workers int
	Cache   bool // memoize part-of-speech lookups

	// Fetch
	WorkDir     string // where missing projects are cloned
	GitHubToken string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 8080),
		TopSize:  getEnvInt("REPOREPORT_TOP_SIZE", 10),
		Workers:  getEnvInt("REPOREPORT_WORKERS", 1),
		Cache:    getEnvBool("REPOREPORT_CACHE", true),
		WorkDir:  getEnv("REPOREPORT_WORK_DIR", ".reporeport/checkouts"),

		GitHubToken: getEnv("GITHUB_TOKEN", ""),
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable
func (c *Config) Validate() error {
	if c.TopSize < 1 {
		return fmt.Errorf("top size must be at least 1, got %d", c.TopSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
