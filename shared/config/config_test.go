package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "render_distance: 3\nmesher: culling\ncull_borders: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RenderDistance != 3 || cfg.Mesher != "culling" || !cfg.CullBorders {
		t.Errorf("Load = %+v, want overrides applied", cfg)
	}
	if cfg.ChunkSize != 16 || cfg.Workers != 4 {
		t.Errorf("ChunkSize=%d Workers=%d, want defaults 16 and 4", cfg.ChunkSize, cfg.Workers)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Terrain = "flat"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("Load after Save = %+v, want %+v", got, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"margin zero", func(c *Config) { c.EvictionMargin = 0 }},
		{"chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"mesher", func(c *Config) { c.Mesher = "" }},
		{"terrain", func(c *Config) { c.Terrain = "" }},
		{"timeout", func(c *Config) { c.TimeoutMs = 0 }},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		tt.modify(c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidConfig", tt.name, err)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("eviction_margin: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load = %v, want ErrInvalidConfig", err)
	}
}

func TestPumpBudget(t *testing.T) {
	if got := DefaultConfig().PumpBudget(); got != 4*time.Millisecond {
		t.Errorf("PumpBudget = %v, want 4ms", got)
	}
}
