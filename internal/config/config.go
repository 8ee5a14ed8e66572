package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"flow-metrics/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultHTTPAddr = ":5024"
	DefaultTimezone = "UTC"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira jira.Config
	// Credentials are the default tenant used by the MCP tools and the report command.
	Credentials jira.Credentials
	HTTPAddr    string
	CacheTTL    time.Duration
	Location    *time.Location
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Binary directory first, MCP hosts rarely start us from the project root
	exePath, err := os.Executable()
	if err == nil {
		envPath := filepath.Join(filepath.Dir(exePath), ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Working directory (go run, tests)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	tzName := getEnv("TZ_NAME", DefaultTimezone)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME %q: %w", tzName, err)
	}

	cfg := &AppConfig{
		Jira: jira.Config{
			JQL:      getEnv("JIRA_JQL", jira.DefaultJQL),
			PageSize: getEnvInt("JIRA_PAGE_SIZE", 100),
			Timeout:  time.Duration(getEnvInt("JIRA_TIMEOUT_SECONDS", 90)) * time.Second,
		},
		Credentials: jira.Credentials{
			BaseURL:  strings.TrimRight(getEnv("JIRA_URL", ""), "/"),
			Email:    getEnv("JIRA_EMAIL", ""),
			APIToken: getEnv("JIRA_API_TOKEN", ""),
		},
		HTTPAddr: getEnv("HTTP_ADDR", DefaultHTTPAddr),
		CacheTTL: time.Duration(getEnvInt("CACHE_TTL_MINUTES", 30)) * time.Minute,
		Location: loc,
	}

	log.Debug().
		Str("httpAddr", cfg.HTTPAddr).
		Dur("cacheTTL", cfg.CacheTTL).
		Str("timezone", loc.String()).
		Int("pageSize", cfg.Jira.PageSize).
		Bool("defaultCredentials", cfg.HasCredentials()).
		Msg("Configuration loaded")

	return cfg, nil
}

// HasCredentials reports whether a complete default tenant is configured.
func (c *AppConfig) HasCredentials() bool {
	return c.Credentials.Validate() == nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Int("default", fallback).Msg("Ignoring invalid integer setting")
	}
	return fallback
}
