// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"time"

	"github.com/okian/liga/internal/domain/week"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Namespace prefixes every storage key.
	Namespace string `koanf:"namespace"`

	// DataFile is the JSON file holding week captures. Empty keeps the
	// store memory-only.
	DataFile string `koanf:"data_file"`

	// AnnualFile optionally seeds the annual ledger with historical totals.
	AnnualFile string `koanf:"annual_file"`

	// DedupeSize sets the size of the submission deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// WeekStartWeekday, WeekStartHour, and WeekEndHour shape the weekly
	// acceptance window. Weekday follows time.Weekday (0 = Sunday).
	WeekStartWeekday int `koanf:"week_start_weekday"`
	WeekStartHour    int `koanf:"week_start_hour"`
	WeekEndHour      int `koanf:"week_end_hour"`

	// TeamNames are the team slots filled by the weekly roster draw.
	TeamNames []string `koanf:"team_names"`

	// PlayerPool holds every player eligible for the weekly draw.
	PlayerPool []string `koanf:"player_pool"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		Namespace:        "liga",
		DataFile:         "weeks.json",
		DedupeSize:       50_000,
		WeekStartWeekday: int(time.Tuesday),
		WeekStartHour:    10,
		WeekEndHour:      22,
		TeamNames:        []string{"team1", "team2", "team3"},
		PlayerPool: []string{
			"Ana", "Beto", "Carla", "Dani", "Elena",
			"Fede", "Gema", "Hugo", "Ines",
		},
	}
}

// Schedule derives the weekly window from the configured fields.
func (c *Config) Schedule() week.Schedule {
	return week.Schedule{
		StartWeekday: time.Weekday(c.WeekStartWeekday),
		StartHour:    c.WeekStartHour,
		EndHour:      c.WeekEndHour,
	}
}
