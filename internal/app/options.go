package app

import (
	"fmt"
	"time"

	"VoxelStream/internal/meshing"
	"VoxelStream/internal/terrain"
	"VoxelStream/internal/worker"
	"VoxelStream/internal/world"
	"VoxelStream/shared/config"
)

// WorldOptions converte a configuração para o Store.
func WorldOptions(cfg *config.Config) (world.Options, error) {
	m, err := meshing.ByName(cfg.Mesher)
	if err != nil {
		return world.Options{}, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	opts := world.Options{
		ChunkSize:            cfg.ChunkSize,
		ChunkHeight:          cfg.ChunkHeight,
		RenderDistance:       cfg.RenderDistance,
		EvictionMargin:       cfg.EvictionMargin,
		MaxDispatchPerUpdate: cfg.DispatchPerUpdate,
		MaxRetries:           cfg.MaxRetries,
		Mesher:               m.Name(),
		CullBorders:          cfg.CullBorders,
	}
	return opts, opts.Validate()
}

// PoolOptions converte a configuração para o pool de workers.
func PoolOptions(cfg *config.Config) (worker.Options, error) {
	m, err := meshing.ByName(cfg.Mesher)
	if err != nil {
		return worker.Options{}, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	factory, err := terrain.ByName(cfg.Terrain)
	if err != nil {
		return worker.Options{}, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	return worker.Options{
		Workers:         cfg.Workers,
		Seed:            cfg.Seed,
		Mesher:          m.Name(),
		Terrain:         factory,
		Timeout:         time.Duration(cfg.TimeoutMs) * time.Millisecond,
		RestartCooldown: time.Duration(cfg.RestartCooldownMs) * time.Millisecond,
	}, nil
}
