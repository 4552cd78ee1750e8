// Package config loads mad-life server settings from defaults, an optional
// YAML file and MADLIFE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Listen  string        `yaml:"listen" env:"MADLIFE_LISTEN"`
	Debug   bool          `yaml:"debug" env:"MADLIFE_DEBUG"`
	Life    LifeConfig    `yaml:"life"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// LifeConfig bounds what a single session may ask for.
type LifeConfig struct {
	DefaultWidth  int `yaml:"default_width" env:"MADLIFE_DEFAULT_WIDTH"`
	DefaultHeight int `yaml:"default_height" env:"MADLIFE_DEFAULT_HEIGHT"`
	MaxWidth      int `yaml:"max_width" env:"MADLIFE_MAX_WIDTH"`
	MaxHeight     int `yaml:"max_height" env:"MADLIFE_MAX_HEIGHT"`
	// MaxAdvance caps how many generations one request may compute.
	MaxAdvance int `yaml:"max_advance" env:"MADLIFE_MAX_ADVANCE"`
	// Lookback bounds duplicate detection to recent generations; 0 keeps the
	// full history.
	Lookback int `yaml:"lookback" env:"MADLIFE_LOOKBACK"`
}

// SessionConfig controls idle session eviction.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl" env:"MADLIFE_SESSION_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"MADLIFE_SESSION_SWEEP_INTERVAL"`
	CookieName    string        `yaml:"cookie_name" env:"MADLIFE_SESSION_COOKIE"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `yaml:"level" env:"MADLIFE_LOG_LEVEL"`
	Format string `yaml:"format" env:"MADLIFE_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen: ":8080",
		Life: LifeConfig{
			DefaultWidth:  20,
			DefaultHeight: 20,
			MaxWidth:      512,
			MaxHeight:     512,
			MaxAdvance:    10000,
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
			CookieName:    "madlife_session",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (skipped when empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	l := c.Life
	if l.MaxWidth < 1 || l.MaxHeight < 1 {
		errs = append(errs, fmt.Errorf("max size %dx%d must be positive", l.MaxWidth, l.MaxHeight))
	}
	if l.DefaultWidth < 1 || l.DefaultHeight < 1 || l.DefaultWidth > l.MaxWidth || l.DefaultHeight > l.MaxHeight {
		errs = append(errs, fmt.Errorf("default size %dx%d must be within 1x1..%dx%d",
			l.DefaultWidth, l.DefaultHeight, l.MaxWidth, l.MaxHeight))
	}
	if l.MaxAdvance < 1 {
		errs = append(errs, fmt.Errorf("max_advance %d must be positive", l.MaxAdvance))
	}
	if l.Lookback < 0 {
		errs = append(errs, fmt.Errorf("lookback %d must not be negative", l.Lookback))
	}
	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session ttl and sweep_interval must be positive"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session cookie_name is empty"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
