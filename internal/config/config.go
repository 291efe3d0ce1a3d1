// Package config holds the health loop's runtime configuration: defaults,
// YAML file loading, and DD_HEALTH_ environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// InventoryPath is the file inventory report the analyzer reads
	InventoryPath string `yaml:"inventory_path"`

	// IntervalSeconds is the spacing between scheduled analysis cycles
	// Default: 30, Range: 5-3600
	IntervalSeconds int `yaml:"interval_seconds"`

	// CooldownHours is the per-file remediation cooldown window
	// Default: 24, Range: 1-168
	CooldownHours int `yaml:"cooldown_hours"`

	// CoverageTarget is the minimum acceptable test coverage percentage
	// Default: 80
	CoverageTarget float64 `yaml:"coverage_target"`

	// CoverageGoal is the percentage supplemental test requests aim for
	// Must be >= CoverageTarget
	// Default: 95
	CoverageGoal float64 `yaml:"coverage_goal"`

	// Silent suppresses end-user notification on remediation requests
	// Default: true
	Silent bool `yaml:"silent"`

	// Storage configures event persistence
	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig selects and parameterizes the event store backend.
type StorageConfig struct {
	// Backend is "sqlite", "postgres", or "none"
	// Default: sqlite
	Backend string `yaml:"backend"`

	// Path is the database file for the sqlite backend
	// Default: .codehealth/events.db
	Path string `yaml:"path"`

	// DSN is the connection string for the postgres backend
	DSN string `yaml:"dsn"`

	// RetentionDays is how long events are kept before cleanup
	// Default: 30, Range: 1-365
	RetentionDays int `yaml:"retention_days"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() *Config {
	return &Config{
		InventoryPath:   "codehealth-report.json",
		IntervalSeconds: 30,
		CooldownHours:   24,
		CoverageTarget:  80,
		CoverageGoal:    95,
		Silent:          true,
		Storage: StorageConfig{
			Backend:       "sqlite",
			Path:          ".codehealth/events.db",
			RetentionDays: 30,
		},
	}
}

// LoadFromFile reads a YAML config file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv applies DD_HEALTH_ environment overrides on top of cfg.
//
// Environment variables:
//   - DD_HEALTH_INVENTORY_PATH: inventory report path
//   - DD_HEALTH_INTERVAL_SECONDS: cycle interval in seconds
//   - DD_HEALTH_COOLDOWN_HOURS: per-file cooldown window in hours
//   - DD_HEALTH_COVERAGE_TARGET: minimum acceptable coverage percentage
//   - DD_HEALTH_COVERAGE_GOAL: supplemental request coverage goal
//   - DD_HEALTH_SILENT: suppress end-user notification (default: true)
//   - DD_HEALTH_STORAGE_BACKEND: sqlite, postgres, or none
//   - DD_HEALTH_STORAGE_PATH: sqlite database file
//   - DD_HEALTH_STORAGE_DSN: postgres connection string
//   - DD_HEALTH_RETENTION_DAYS: event retention in days
func (c *Config) LoadFromEnv() error {
	if err := parseEnvString("DD_HEALTH_INVENTORY_PATH", &c.InventoryPath); err != nil {
		return err
	}
	if err := parseEnvInt("DD_HEALTH_INTERVAL_SECONDS", &c.IntervalSeconds); err != nil {
		return err
	}
	if err := parseEnvInt("DD_HEALTH_COOLDOWN_HOURS", &c.CooldownHours); err != nil {
		return err
	}
	if err := parseEnvFloat("DD_HEALTH_COVERAGE_TARGET", &c.CoverageTarget); err != nil {
		return err
	}
	if err := parseEnvFloat("DD_HEALTH_COVERAGE_GOAL", &c.CoverageGoal); err != nil {
		return err
	}
	if err := parseEnvBool("DD_HEALTH_SILENT", &c.Silent); err != nil {
		return err
	}
	if err := parseEnvString("DD_HEALTH_STORAGE_BACKEND", &c.Storage.Backend); err != nil {
		return err
	}
	if err := parseEnvString("DD_HEALTH_STORAGE_PATH", &c.Storage.Path); err != nil {
		return err
	}
	if err := parseEnvString("DD_HEALTH_STORAGE_DSN", &c.Storage.DSN); err != nil {
		return err
	}
	if err := parseEnvInt("DD_HEALTH_RETENTION_DAYS", &c.Storage.RetentionDays); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks that every field is in range.
func (c *Config) Validate() error {
	if c.InventoryPath == "" {
		return fmt.Errorf("inventory_path is required")
	}
	if c.IntervalSeconds < 5 || c.IntervalSeconds > 3600 {
		return fmt.Errorf("interval_seconds must be between 5 and 3600 (got %d)", c.IntervalSeconds)
	}
	if c.CooldownHours < 1 || c.CooldownHours > 168 {
		return fmt.Errorf("cooldown_hours must be between 1 and 168 (got %d)", c.CooldownHours)
	}
	if c.CoverageTarget <= 0 || c.CoverageTarget > 100 {
		return fmt.Errorf("coverage_target must be in (0, 100] (got %.1f)", c.CoverageTarget)
	}
	if c.CoverageGoal < c.CoverageTarget || c.CoverageGoal > 100 {
		return fmt.Errorf("coverage_goal must be between coverage_target and 100 (got %.1f)", c.CoverageGoal)
	}

	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite backend")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres backend")
		}
	case "none":
	default:
		return fmt.Errorf("storage.backend must be 'sqlite', 'postgres', or 'none' (got %q)", c.Storage.Backend)
	}
	if c.Storage.RetentionDays < 1 || c.Storage.RetentionDays > 365 {
		return fmt.Errorf("storage.retention_days must be between 1 and 365 (got %d)", c.Storage.RetentionDays)
	}
	return nil
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Inventory: %s, Interval: %ds, Cooldown: %dh, Coverage: %.0f/%.0f, Silent: %t, Storage: %s}",
		c.InventoryPath, c.IntervalSeconds, c.CooldownHours,
		c.CoverageTarget, c.CoverageGoal, c.Silent, c.Storage.Backend,
	)
}

func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvString(key string, dest *string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	*dest = value
	return nil
}
