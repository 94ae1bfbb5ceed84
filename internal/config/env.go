// Package config loads runtime settings from the environment and builds the
// process logger.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are the runtime defaults of the turingx command. Flags override them.
type Settings struct {
	LogLevel   string        `env:"TURINGX_LOG_LEVEL" envDefault:"info"`
	LogFormat  string        `env:"TURINGX_LOG_FORMAT" envDefault:"text"`
	LogJournal bool          `env:"TURINGX_LOG_JOURNAL" envDefault:"false"`
	MaxSteps   int           `env:"TURINGX_MAX_STEPS" envDefault:"100000"`
	Interval   time.Duration `env:"TURINGX_INTERVAL" envDefault:"0s"`
	DataDir    string        `env:"TURINGX_DATA_DIR" envDefault:".turingx"`
	Persist    string        `env:"TURINGX_PERSIST"`
	Listen     string        `env:"TURINGX_LISTEN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings parses Settings from the environment and validates them.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks enumerated and numeric fields.
func (s *Settings) Validate() error {
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", s.LogFormat)
	}
	switch strings.ToLower(s.Persist) {
	case "", "json", "yaml", "sqlite":
	default:
		return fmt.Errorf("persist must be json, yaml or sqlite, got %q", s.Persist)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max steps must not be negative, got %d", s.MaxSteps)
	}
	if s.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %v", s.Interval)
	}
	return nil
}
