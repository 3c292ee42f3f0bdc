package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"saferm/internal/backoff"
	"saferm/internal/remove"
)

// Profile names selectable in configuration
const (
	ProfileStrict = "strict"
	ProfileSafe   = "safe"
)

type PrometheusCfg struct {
	Port int `yaml:"port" json:"port"`
}

type LoggingCfg struct {
	RotationDays int `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type RemovalCfg struct {
	Recursive    *bool `yaml:"recursive" json:"recursive"`           // Override profile default
	Force        *bool `yaml:"force" json:"force"`                   // Override profile default
	MaxRetries   *int  `yaml:"max_retries" json:"max_retries"`       // Override profile default
	RetryDelayMS *int  `yaml:"retry_delay_ms" json:"retry_delay_ms"` // Base backoff delay
	Sequential   bool  `yaml:"sequential" json:"sequential"`         // Disable per-level fan-out
}

type Config struct {
	Profile        string        `yaml:"profile" json:"profile"` // strict or safe
	Removal        RemovalCfg    `yaml:"removal" json:"removal"`
	ProtectedPaths []string      `yaml:"protected_paths" json:"protected_paths"`
	DatabasePath   string        `yaml:"database_path" json:"database_path"` // SQLite removal history
	Prometheus     PrometheusCfg `yaml:"prometheus" json:"prometheus"`
	Logging        LoggingCfg    `yaml:"logging" json:"logging"`
}

var (
	errUnknownProfile = errors.New("profile must be strict or safe")
	errNegativeRetry  = errors.New("max_retries cannot be negative")
	errNegativeDelay  = errors.New("retry_delay_ms cannot be negative")
)

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.validateAndDefault()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	switch c.Profile {
	case "":
		c.Profile = ProfileStrict
	case ProfileStrict, ProfileSafe:
	default:
		return fmt.Errorf("%w: %s", errUnknownProfile, c.Profile)
	}

	if c.Removal.MaxRetries != nil && *c.Removal.MaxRetries < 0 {
		return errNegativeRetry
	}
	if c.Removal.RetryDelayMS != nil && *c.Removal.RetryDelayMS < 0 {
		return errNegativeDelay
	}

	if c.Prometheus.Port < 0 {
		c.Prometheus.Port = 0
	}

	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30 // Default: keep logs for 30 days
	}

	if c.DatabasePath == "" {
		c.DatabasePath = "/var/lib/saferm/removals.db"
	}

	return nil
}

// RemoverOptions expands the configured profile and overrides into engine
// options
func (c *Config) RemoverOptions() remove.Options {
	var opts remove.Options
	if c.Profile == ProfileSafe {
		opts = remove.Safe()
	} else {
		opts = remove.Strict()
	}

	if c.Removal.Recursive != nil {
		opts.Recursive = *c.Removal.Recursive
	}
	if c.Removal.Force != nil {
		opts.Force = *c.Removal.Force
	}
	if c.Removal.MaxRetries != nil {
		opts.MaxRetries = *c.Removal.MaxRetries
	}
	if c.Removal.RetryDelayMS != nil {
		opts.RetryDelay = time.Duration(*c.Removal.RetryDelayMS) * time.Millisecond
		// Rebase the backoff policy on the overridden delay
		if c.Profile == ProfileSafe {
			opts.Policy = backoff.Exponential{Base: opts.RetryDelay}
		} else {
			opts.Policy = backoff.Fixed{Base: opts.RetryDelay}
		}
	}
	opts.Sequential = c.Removal.Sequential

	return opts
}

func (c *Config) PrometheusAddress() string {
	return fmt.Sprintf(":%d", c.Prometheus.Port)
}
