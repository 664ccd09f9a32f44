package app

import (
	"errors"
	"testing"
	"time"

	"VoxelStream/shared/config"
)

func TestOptionsFromDefaults(t *testing.T) {
	cfg := config.DefaultConfig()

	wo, err := WorldOptions(cfg)
	if err != nil {
		t.Fatalf("WorldOptions = %v", err)
	}
	if wo.ChunkSize != 16 || wo.EvictionMargin != 2 || wo.Mesher != "greedy" {
		t.Errorf("WorldOptions = %+v", wo)
	}

	po, err := PoolOptions(cfg)
	if err != nil {
		t.Fatalf("PoolOptions = %v", err)
	}
	if po.Terrain == nil || po.Timeout != 5*time.Second || po.Workers != 4 || po.RestartCooldown != 500*time.Millisecond {
		t.Errorf("PoolOptions = %+v", po)
	}
}

func TestOptionsRejectUnknownNames(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"mesher", func(c *config.Config) { c.Mesher = "marching" }},
		{"terrain", func(c *config.Config) { c.Terrain = "mars" }},
	}
	for _, tt := range tests {
		cfg := config.DefaultConfig()
		tt.modify(cfg)
		if _, err := PoolOptions(cfg); !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("%s: PoolOptions = %v, want ErrInvalidConfig", tt.name, err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Mesher = "marching"
	if _, err := WorldOptions(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("WorldOptions(bad mesher) = %v, want ErrInvalidConfig", err)
	}
}
