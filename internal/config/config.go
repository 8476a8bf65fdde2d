// Package config loads application settings from the environment. A .env
// file in the working directory is honored for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"olccprices/database"
)

// DefaultPriceListURL is the published numeric price list location
const DefaultPriceListURL = "http://www.olcc.state.or.us/pdfs/NumericPriceListCurrent.xls"

// Config holds settings shared by the command line tools
type Config struct {
	// Database
	DatabasePath    string        `json:"database_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Outbound HTTP
	UserAgent   string        `json:"user_agent"`
	HTTPTimeout time.Duration `json:"http_timeout"`

	// Price list fetching
	PriceListURL string `json:"price_list_url"`

	// Geocoding
	GeocoderURL  string        `json:"geocoder_url"`
	GeocodeDelay time.Duration `json:"geocode_delay"`
}

// Load reads configuration from the environment, falling back to defaults
func Load() (*Config, error) {
	// Optional; a missing .env file is fine
	_ = godotenv.Load()

	config := &Config{
		DatabasePath:    getEnv("OLCC_DB_PATH", "olccprices.db"),
		MaxOpenConns:    getEnvInt("OLCC_DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("OLCC_DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("OLCC_DB_CONN_MAX_LIFETIME", 5*time.Minute),

		UserAgent:   getEnv("OLCC_USER_AGENT", "olccprices/1.0"),
		HTTPTimeout: getEnvDuration("OLCC_HTTP_TIMEOUT", 30*time.Second),

		PriceListURL: getEnv("OLCC_PRICE_LIST_URL", DefaultPriceListURL),

		GeocoderURL:  getEnv("OLCC_GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocodeDelay: getEnvDuration("OLCC_GEOCODE_DELAY", 350*time.Millisecond),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	var errors []string

	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open conns must be at least 1")
	}
	if c.MaxIdleConns < 0 {
		errors = append(errors, "max idle conns must not be negative")
	}
	if c.PriceListURL == "" {
		errors = append(errors, "price list URL is required")
	}
	if c.HTTPTimeout <= 0 {
		errors = append(errors, "HTTP timeout must be positive")
	}
	if c.GeocodeDelay < 0 {
		errors = append(errors, "geocode delay must not be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

// DBConfig returns the connection pool settings for the database layer
func (c *Config) DBConfig() database.DBConfig {
	return database.DBConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a Duration or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
