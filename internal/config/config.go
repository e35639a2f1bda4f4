package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIURL         = "http://localhost:8000/api"
	defaultRequestTimeout = 15 * time.Second
	defaultFetchWorkers   = 4
)

type Config struct {
	// Expense service
	APIURL         string
	RequestTimeout time.Duration

	// Batch fetches (report)
	FetchWorkers int

	// Logging
	LogLevel string
	LogFile  string

	// Local settings database; empty means the user config directory
	DBPath string
}

func Load() *Config {
	return &Config{
		APIURL:         getEnv("MONTHLENS_API_URL", defaultAPIURL),
		RequestTimeout: getEnvDuration("MONTHLENS_REQUEST_TIMEOUT", defaultRequestTimeout),
		FetchWorkers:   getEnvInt("MONTHLENS_FETCH_WORKERS", defaultFetchWorkers),
		LogLevel:       getEnv("MONTHLENS_LOG_LEVEL", "info"),
		LogFile:        getEnv("MONTHLENS_LOG_FILE", ""),
		DBPath:         getEnv("MONTHLENS_DB_PATH", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if parsedURL, err := url.Parse(c.APIURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': %v", c.APIURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	} else if parsedURL.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': missing host", c.APIURL))
	}

	if c.RequestTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	} else if c.RequestTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at most 5 minutes", c.RequestTimeout))
	}

	if c.FetchWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid fetch workers %d: must be at least 1", c.FetchWorkers))
	} else if c.FetchWorkers > 32 {
		errors = append(errors, fmt.Sprintf("invalid fetch workers %d: must be at most 32", c.FetchWorkers))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// LogPath returns the log file path, defaulting next to the settings
// database in the user config directory.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "monthlens", "monthlens.log"), nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt keeps an unparseable value as -1 so Validate reports it instead
// of silently using the default.
func getEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return -1
		}
		return i
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0
		}
		return d
	}
	return defaultValue
}
