package worker

import (
	"fmt"
	"time"

	"quantum-news-agent/pkg/config"
)

// Config holds the configuration for the scheduler component.
// It controls when the daily pipeline runs, how long a single run may
// take, and where the health check server listens.
type Config struct {
	// CronSchedule is the cron expression for the daily run.
	// Format: "minute hour day month weekday" (5 fields).
	// Default: "0 8 * * *" (every day at 08:00).
	CronSchedule string

	// Timezone is the IANA timezone name used for cron scheduling.
	// Default: "UTC".
	Timezone string

	// RunTimeout is the maximum duration for a single daily run.
	// After this timeout the run context is cancelled.
	// Default: 30 minutes.
	RunTimeout time.Duration

	// HealthPort is the port for the health check HTTP server.
	// Range: 1024-65535. Default: 9091.
	HealthPort int
}

// DefaultConfig returns a Config with production-ready defaults:
// a daily run at 08:00 UTC, a 30-minute run timeout, and the health
// server on the common exporter port 9091.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 8 * * *",
		Timezone:     "UTC",
		RunTimeout:   30 * time.Minute,
		HealthPort:   9091,
	}
}

// LoadConfigFromEnv loads scheduler configuration from environment
// variables, falling back to defaults for unset values.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "0 8 * * *")
//   - SCHEDULER_TIMEZONE: IANA timezone name (default "UTC")
//   - RUN_TIMEOUT: duration string, e.g. "30m" (default 30 minutes)
//   - HEALTH_PORT: integer 1024-65535 (default 9091)
//
// The returned config has already been validated.
func LoadConfigFromEnv() (Config, error) {
	defaults := DefaultConfig()

	cfg := Config{
		CronSchedule: config.GetEnvString("CRON_SCHEDULE", defaults.CronSchedule),
		Timezone:     config.GetEnvString("SCHEDULER_TIMEZONE", defaults.Timezone),
		RunTimeout:   config.GetEnvDuration("RUN_TIMEOUT", defaults.RunTimeout),
		HealthPort:   config.GetEnvInt("HEALTH_PORT", defaults.HealthPort),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values. All invalid fields are
// collected and reported together.
func (c *Config) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}
