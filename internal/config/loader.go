package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if LIGA_CONFIG is set
//  3. env (prefix LIGA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LIGA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LIGA_ADDR, LIGA_DATA_FILE, ...
	// Map env keys like LIGA_DATA_FILE -> data_file (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("LIGA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "liga_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.Namespace == "":
		return fmt.Errorf("%w: namespace must not be empty", ErrInvalidConfig)
	case cfg.LogFormat != "" && cfg.LogFormat != "text" && cfg.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	case cfg.WeekStartWeekday < 0 || cfg.WeekStartWeekday > 6:
		return fmt.Errorf("%w: week_start_weekday must be 0..6", ErrInvalidConfig)
	case cfg.WeekStartHour < 0 || cfg.WeekStartHour > 23:
		return fmt.Errorf("%w: week_start_hour must be 0..23", ErrInvalidConfig)
	case cfg.WeekEndHour < 0 || cfg.WeekEndHour > 23:
		return fmt.Errorf("%w: week_end_hour must be 0..23", ErrInvalidConfig)
	case len(cfg.TeamNames) == 0:
		return fmt.Errorf("%w: team_names must not be empty", ErrInvalidConfig)
	}
	return nil
}
