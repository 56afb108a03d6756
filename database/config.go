package database

import (
	"fmt"
	"time"

	"github.com/kbukum/appkit/validation"
)

const (
	// Section holds the primary connection.
	Section = "db"
	// MultiSection holds labelled connections keyed by label.
	MultiSection = "dbs"
)

// Config holds database connection configuration.
type Config struct {
	// DSN is the driver connection string.
	DSN string `mapstructure:"dsn" validate:"required"`

	// MaxOpenConns sets the maximum number of open connections to the database.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`

	// MaxIdleConns sets the maximum number of idle connections in the pool.
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`

	// ConnMaxLifetime is the maximum time a connection may be reused (e.g. "1h", "30m").
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`

	// ConnMaxIdleTime is the maximum time a connection may sit idle (e.g. "5m").
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`

	// MaxRetries is the number of connection attempts before giving up.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// RetryBackoff is the first wait between attempts; it doubles after each.
	RetryBackoff string `mapstructure:"retry_backoff"`

	// AutoMigrate runs GORM auto-migration for models given with WithModels.
	AutoMigrate bool `mapstructure:"auto_migrate"`

	// SlowQueryThreshold is the duration above which queries are logged as slow (e.g. "200ms").
	SlowQueryThreshold string `mapstructure:"slow_query_threshold"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=silent error warn info"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.ConnMaxIdleTime == "" {
		c.ConnMaxIdleTime = "5m"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = "1s"
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "200ms"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate checks tags, pool sizing and that every duration parses.
// section names the configuration key in the returned error.
func (c *Config) Validate(section string) error {
	if err := validation.Section(section, c); err != nil {
		return err
	}
	v := validation.New()
	v.Custom(c.MaxIdleConns <= c.MaxOpenConns, "max_idle_conns",
		fmt.Sprintf("must be <= max_open_conns (%d)", c.MaxOpenConns))
	for _, d := range []struct{ field, value string }{
		{"conn_max_lifetime", c.ConnMaxLifetime},
		{"conn_max_idle_time", c.ConnMaxIdleTime},
		{"retry_backoff", c.RetryBackoff},
		{"slow_query_threshold", c.SlowQueryThreshold},
	} {
		_, err := time.ParseDuration(d.value)
		v.Custom(err == nil, d.field, fmt.Sprintf("invalid duration %q", d.value))
	}
	return v.Validate(section)
}

// duration parses a validated duration field.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
