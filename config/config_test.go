package config

import (
	"errors"
	"log/slog"
	"slices"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeTerminal || cfg.FPS != 60 || cfg.Particles != 80 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.CellWidth != 8 || cfg.CellHeight != 16 {
		t.Errorf("cell size = %dx%d", cfg.CellWidth, cfg.CellHeight)
	}
	if len(cfg.Labels) != 0 || cfg.StableRotation {
		t.Errorf("labels = %v, stable = %v", cfg.Labels, cfg.StableRotation)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ASCIICLOUD_MODE", "serve")
	t.Setenv("ASCIICLOUD_FPS", "30")
	t.Setenv("ASCIICLOUD_LABELS", "Go,Rust,Zig")
	t.Setenv("ASCIICLOUD_SEED", "42")
	t.Setenv("ASCIICLOUD_STABLE_ROTATION", "true")
	t.Setenv("ASCIICLOUD_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeServe || cfg.FPS != 30 || cfg.Seed != 42 || !cfg.StableRotation {
		t.Errorf("cfg = %+v", cfg)
	}
	if !slices.Equal(cfg.Labels, []string{"Go", "Rust", "Zig"}) {
		t.Errorf("labels = %v", cfg.Labels)
	}
	if lvl, _ := cfg.Level(); lvl != slog.LevelDebug {
		t.Errorf("level = %v", lvl)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad mode", map[string]string{"ASCIICLOUD_MODE": "gui"}},
		{"zero fps", map[string]string{"ASCIICLOUD_FPS": "0"}},
		{"huge fps", map[string]string{"ASCIICLOUD_FPS": "1000"}},
		{"negative particles", map[string]string{"ASCIICLOUD_PARTICLES": "-1"}},
		{"zero cell", map[string]string{"ASCIICLOUD_CELL_WIDTH": "0"}},
		{"relative prefix", map[string]string{"ASCIICLOUD_PREFIX": "static"}},
		{"bad level", map[string]string{"ASCIICLOUD_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ASCIICLOUD_FPS", "sixty")
	_, err := Load()
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want a parse error", err)
	}
}
