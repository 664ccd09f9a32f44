package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"VoxelStream/internal/meshing"
	"VoxelStream/internal/survey"
	"VoxelStream/internal/terrain"
	"VoxelStream/shared/config"
)

func main() {
	configPath := flag.String("config", "voxelstream.yaml", "Arquivo de configuração YAML")
	radius := flag.Int("radius", 4, "Raio em chunks ao redor da origem")
	workers := flag.Int("workers", 0, "Goroutines (0 = usar config)")
	seed := flag.Int64("seed", 0, "Seed do terreno (0 = usar config)")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	factory, err := terrain.ByName(cfg.Terrain)
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	keys := survey.Square(*radius)
	log.Printf("[Bench] %d chunks %dx%d, terreno %s, seed %d, %d workers",
		len(keys), cfg.ChunkSize, cfg.ChunkHeight, cfg.Terrain, cfg.Seed, cfg.Workers)

	start := time.Now()
	report, err := survey.Run(ctx, survey.Options{
		Source:  factory(cfg.Seed),
		Meshers: []meshing.Mesher{meshing.FaceCulling{}, meshing.Greedy{}},
		Keys:    keys,
		Size:    cfg.ChunkSize,
		Height:  cfg.ChunkHeight,
		Workers: cfg.Workers,
	})
	if err != nil {
		log.Fatalf("[Bench] %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MESHER\tQUADS\tVÉRTICES\tÍNDICES\tÁREA\tTEMPO")
	for _, t := range report.Totals {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.0f\t%v\n", t.Name, t.Quads, t.Vertices, t.Indices, t.SurfaceArea, t.Build.Round(time.Microsecond))
	}
	w.Flush()

	fmt.Printf("\n%d chunks, %d voxels sólidos, %d bytes serializados, %v\n",
		report.Chunks, report.Solid, report.EncodedBytes, time.Since(start).Round(time.Millisecond))

	for _, m := range report.Mismatches {
		fmt.Printf("DIVERGÊNCIA %v: %s\n", m.Key, m.Reason)
	}
	for _, e := range report.Failures {
		fmt.Printf("FALHA %v\n", e)
	}
	if !report.Consistent() {
		os.Exit(1)
	}
	fmt.Println("OK: meshers equivalentes")
}
