package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"VoxelStream/internal/app"
	"VoxelStream/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	configPath := flag.String("config", "voxelstream.yaml", "Arquivo de configuração YAML")
	seed := flag.Int64("seed", 0, "Seed do terreno (0 = usar config)")
	radius := flag.Int("radius", -1, "Raio de carregamento em chunks")
	mesher := flag.String("mesher", "", "Mesher: greedy ou culling")
	workers := flag.Int("workers", 0, "Número de workers")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	save := flag.Bool("save", false, "Salvar a configuração efetiva ao sair")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("--- INICIANDO VOXELSTREAM ---")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	// Flags sobrescrevem o arquivo
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *radius >= 0 {
		cfg.RenderDistance = *radius
	}
	if *mesher != "" {
		cfg.Mesher = *mesher
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Config] %v", err)
	}

	if err := app.New(cfg).Run(); err != nil {
		log.Printf("[VoxelStream] %v", err)
		os.Exit(1)
	}

	if *save {
		if err := cfg.Save(*configPath); err != nil {
			log.Printf("[VoxelStream] Erro ao salvar configurações: %v", err)
		}
	}
}
