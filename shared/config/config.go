package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config inválida")

// Config armazena as configurações do VoxelStream.
type Config struct {
	// Janela
	WindowWidth  int32  `yaml:"window_width"`
	WindowHeight int32  `yaml:"window_height"`
	WindowTitle  string `yaml:"window_title"`
	TargetFPS    int32  `yaml:"target_fps"`

	// Mundo
	Seed           int64  `yaml:"seed"`
	Terrain        string `yaml:"terrain"`
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkHeight    int    `yaml:"chunk_height"`
	RenderDistance int    `yaml:"render_distance"` // raio em chunks
	EvictionMargin int    `yaml:"eviction_margin"`

	// Geração
	Mesher            string `yaml:"mesher"`
	Workers           int    `yaml:"workers"`
	TimeoutMs         int    `yaml:"timeout_ms"`
	RestartCooldownMs int    `yaml:"restart_cooldown_ms"`
	MaxRetries        int    `yaml:"max_retries"`
	DispatchPerUpdate int    `yaml:"dispatch_per_update"`
	CullBorders       bool   `yaml:"cull_borders"`
	PumpBudgetMs      int    `yaml:"pump_budget_ms"` // tempo por frame para instalar malhas

	// Câmera
	FOV               float32 `yaml:"fov"`
	CameraSensitivity float32 `yaml:"camera_sensitivity"`
	ZoomSpeed         float32 `yaml:"zoom_speed"`

	// Debug
	ShowDebugInfo bool `yaml:"show_debug_info"`
	WireframeMode bool `yaml:"wireframe_mode"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "VoxelStream",
		TargetFPS:    60,

		Seed:           1337,
		Terrain:        "simplex",
		ChunkSize:      16,
		ChunkHeight:    64,
		RenderDistance: 6,
		EvictionMargin: 2,

		Mesher:            "greedy",
		Workers:           4,
		TimeoutMs:         5000,
		RestartCooldownMs: 500,
		MaxRetries:        3,
		DispatchPerUpdate: 16,
		CullBorders:       false,
		PumpBudgetMs:      4,

		FOV:               60.0,
		CameraSensitivity: 0.3,
		ZoomSpeed:         5.0,

		ShowDebugInfo: true,
	}
}

// Load carrega as configurações de um arquivo YAML.
// Se o arquivo não existir, retorna as configurações padrão.
// Campos ausentes no arquivo mantêm o valor padrão.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save salva as configurações em um arquivo YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checa os limites numéricos. Os nomes de mesher e terreno são
// resolvidos por quem monta o engine.
func (c *Config) Validate() error {
	switch {
	case c.ChunkSize <= 0 || c.ChunkHeight <= 0:
		return fmt.Errorf("%w: chunk %dx%d", ErrInvalidConfig, c.ChunkSize, c.ChunkHeight)
	case c.RenderDistance < 0:
		return fmt.Errorf("%w: render_distance %d", ErrInvalidConfig, c.RenderDistance)
	case c.EvictionMargin < 1:
		return fmt.Errorf("%w: eviction_margin deve ser >= 1 (atual %d)", ErrInvalidConfig, c.EvictionMargin)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.MaxRetries < 0 || c.DispatchPerUpdate < 0:
		return fmt.Errorf("%w: max_retries/dispatch_per_update negativos", ErrInvalidConfig)
	case c.TimeoutMs <= 0:
		return fmt.Errorf("%w: timeout_ms %d", ErrInvalidConfig, c.TimeoutMs)
	case c.Mesher == "" || c.Terrain == "":
		return fmt.Errorf("%w: mesher e terrain são obrigatórios", ErrInvalidConfig)
	}
	return nil
}

// PumpBudget é o tempo por frame reservado para instalar respostas.
func (c *Config) PumpBudget() time.Duration {
	return time.Duration(c.PumpBudgetMs) * time.Millisecond
}
