// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Database connections
	Driver    string // "snowflake" or "postgres"
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// Reviewed table settings
	Review *ReviewConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// ReviewConfig identifies the table under review and how to address its
// rows. No column-specific knowledge beyond the key, lock, and ordering
// columns is ever configured; everything else is inferred at load time.
type ReviewConfig struct {
	Database     string
	Schema       string
	Table        string
	PrimaryKey   []string // storage column names, declared key order
	LockColumn   string   // optional; stamped with the write time on merge
	OrderBy      string   // optional load ordering column
	PendingTable string   // approval queue table, created on first use
	MaxRows      int      // display cap for the presentation layer
	CacheTTL     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Driver:    getEnv("REVIEW_DRIVER", "snowflake"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	reviewCfg, err := LoadReviewConfig()
	if err != nil {
		return nil, errors.New("failed to load review configuration: " + err.Error())
	}
	cfg.Review = reviewCfg

	switch cfg.Driver {
	case "snowflake":
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, errors.New("failed to load Snowflake configuration: " + err.Error())
		}
		cfg.Snowflake = snowConfig
	case "postgres":
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
		}
		cfg.Postgres = pgConfig
	default:
		return nil, errors.New("unsupported driver: " + cfg.Driver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadReviewConfig loads the reviewed-table settings from environment variables
func LoadReviewConfig() (*ReviewConfig, error) {
	table := os.Getenv("REVIEW_TABLE")
	if table == "" {
		return nil, errors.New("REVIEW_TABLE environment variable is required")
	}

	primaryKey := getEnvAsStringSlice("REVIEW_PRIMARY_KEY", nil)
	if len(primaryKey) == 0 {
		return nil, errors.New("REVIEW_PRIMARY_KEY environment variable is required")
	}

	cfg := &ReviewConfig{
		Database:     getEnv("REVIEW_DATABASE", ""),
		Schema:       getEnv("REVIEW_SCHEMA", "public"),
		Table:        table,
		PrimaryKey:   primaryKey,
		LockColumn:   getEnv("REVIEW_LOCK_COLUMN", ""),
		OrderBy:      getEnv("REVIEW_ORDER_BY", ""),
		PendingTable: getEnv("REVIEW_PENDING_TABLE", table+"_pending_changes"),
		MaxRows:      getEnvAsInt("REVIEW_MAX_ROWS", 500),
		CacheTTL:     time.Duration(getEnvAsInt("REVIEW_CACHE_TTL_SECONDS", 60)) * time.Second,
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Review == nil {
		return errors.New("review configuration is required")
	}

	if c.Snowflake == nil && c.Postgres == nil {
		return errors.New("a datastore configuration is required")
	}

	if c.Review.MaxRows <= 0 {
		return errors.New("max rows must be positive")
	}

	if c.Review.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	for _, key := range c.Review.PrimaryKey {
		if strings.TrimSpace(key) == "" {
			return errors.New("primary key columns cannot be blank")
		}
	}

	if c.Review.LockColumn != "" {
		for _, key := range c.Review.PrimaryKey {
			if key == c.Review.LockColumn {
				return errors.New("lock column cannot be part of the primary key")
			}
		}
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsStringSlice parses a comma-separated environment variable
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
