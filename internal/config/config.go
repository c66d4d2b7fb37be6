// Package config loads the explicit runtime configuration from the
// environment. Nothing else in the module reads environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/timereport/internal/tracker"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. TIMEREPORT_TIMEZONE.
const Prefix = "TIMEREPORT"

// Config is passed explicitly into the store, calendar, tracker client
// and publisher constructors.
type Config struct {
	// DB is the SQLite file; empty means ~/.timereport/timereport.db.
	DB       string `envconfig:"DB"`
	Timezone string `envconfig:"TIMEZONE" default:"America/New_York"`

	TrackerEndpoint     string `envconfig:"TRACKER_ENDPOINT" default:"https://app.atimelogger.com"`
	TrackerUser         string `envconfig:"TRACKER_USER"`
	TrackerPassword     string `envconfig:"TRACKER_PASSWORD"`
	TrackerClientID     string `envconfig:"TRACKER_CLIENT_ID" default:"androidClient"`
	TrackerClientSecret string `envconfig:"TRACKER_CLIENT_SECRET" default:"secret"`
	TrackerTimeoutMs    int    `envconfig:"TRACKER_TIMEOUT_MS" default:"30000"`
	IntervalLimit       int    `envconfig:"INTERVAL_LIMIT" default:"100000"`
	LogCalls            bool   `envconfig:"LOG_CALLS" default:"false"`

	// NewDays is how far back an incremental sync reaches.
	NewDays int `envconfig:"NEW_DAYS" default:"2"`

	// Vault is the notes root; empty means ~/TimeReport.
	Vault          string `envconfig:"VAULT"`
	SleepType      string `envconfig:"SLEEP_TYPE" default:"Sleep"`
	SleepRangeDays int    `envconfig:"SLEEP_RANGE_DAYS" default:"7"`
	Notify         bool   `envconfig:"NOTIFY" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from TIMEREPORT_* variables, applies
// defaults and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() error {
	if c.DB != "" && c.Vault != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}
	if c.DB == "" {
		c.DB = filepath.Join(home, ".timereport", "timereport.db")
	}
	if c.Vault == "" {
		c.Vault = filepath.Join(home, "TimeReport")
	}
	return nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.NewDays < 1 {
		return fmt.Errorf("config: NEW_DAYS must be positive, got %d", c.NewDays)
	}
	if c.SleepRangeDays < 2 {
		return fmt.Errorf("config: SLEEP_RANGE_DAYS must be at least 2, got %d", c.SleepRangeDays)
	}
	if c.IntervalLimit < 1 {
		return fmt.Errorf("config: INTERVAL_LIMIT must be positive, got %d", c.IntervalLimit)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Location resolves the report timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Tracker returns the tracker client configuration.
func (c *Config) Tracker() tracker.Config {
	return tracker.Config{
		Endpoint:     strings.TrimRight(c.TrackerEndpoint, "/"),
		Username:     c.TrackerUser,
		Password:     c.TrackerPassword,
		ClientID:     c.TrackerClientID,
		ClientSecret: c.TrackerClientSecret,
		TimeoutMs:    c.TrackerTimeoutMs,
		Limit:        c.IntervalLimit,
	}
}

// HasCredentials reports whether a sync can authenticate.
func (c *Config) HasCredentials() bool {
	return c.TrackerUser != "" && c.TrackerPassword != ""
}
