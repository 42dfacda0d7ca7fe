// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "ASCIICLOUD"

const (
	ModeTerminal = "terminal"
	ModeServe    = "serve"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Mode      string   `envconfig:"MODE" default:"terminal"`
	Addr      string   `envconfig:"ADDR" default:"localhost:5000"`
	Prefix    string   `envconfig:"PREFIX" default:"/"`
	Root      string   `envconfig:"ROOT" default:"./web"`
	FPS       int      `envconfig:"FPS" default:"60"`
	Particles int      `envconfig:"PARTICLES" default:"80"`
	Labels    []string `envconfig:"LABELS"`
	Seed      uint64   `envconfig:"SEED"`

	CellWidth  int `envconfig:"CELL_WIDTH" default:"8"`
	CellHeight int `envconfig:"CELL_HEIGHT" default:"16"`

	StableRotation bool   `envconfig:"STABLE_ROTATION"`
	Cascade        string `envconfig:"CASCADE"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"debug.log"`
}

// Load reads the ASCIICLOUD_* variables and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeTerminal, ModeServe:
	default:
		return fmt.Errorf("%w: mode %q, want %s or %s", ErrInvalid, c.Mode, ModeTerminal, ModeServe)
	}
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("%w: fps %d out of range (1-240)", ErrInvalid, c.FPS)
	}
	if c.Particles < 0 {
		return fmt.Errorf("%w: negative particle count %d", ErrInvalid, c.Particles)
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("%w: cell size %dx%d", ErrInvalid, c.CellWidth, c.CellHeight)
	}
	if !strings.HasPrefix(c.Prefix, "/") {
		return fmt.Errorf("%w: prefix %q must start with /", ErrInvalid, c.Prefix)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}
