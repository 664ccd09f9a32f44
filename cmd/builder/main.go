package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// component é um binário do repositório.
type component struct {
	Name   string
	Pkg    string
	Cgo    bool // raylib exige cgo
	Output string
}

var components = []component{
	{Name: "VOXVIEW (CGO + GUI)", Pkg: "./cmd/voxview", Cgo: true, Output: "voxview"},
	{Name: "MESHBENCH (Pure Go)", Pkg: "./cmd/meshbench", Output: "meshbench"},
}

func main() {
	outDir := flag.String("out", "bin", "Diretório de saída")
	test := flag.Bool("test", true, "Rodar os testes dos pacotes headless antes")
	flag.Parse()

	fmt.Println(ColorCyan + "--- VoxelStream Builder ---" + ColorReset)
	start := time.Now()

	setupEnvironment()

	if *test {
		if err := run("TESTES", false, "test", "./shared/...", "./internal/meshing/...", "./internal/terrain/...",
			"./internal/worker/...", "./internal/world/...", "./internal/survey/..."); err != nil {
			fatal(err)
		}
	}

	for i, c := range components {
		fmt.Printf(ColorYellow+"\n[%d/%d] Compilando %s..."+ColorReset+"\n", i+1, len(components), c.Name)
		out := filepath.Join(*outDir, c.Output)
		if runtime.GOOS == "windows" {
			out += ".exe"
		}
		if err := run(c.Name, c.Cgo, "build", "-ldflags", "-s -w", "-o", out, c.Pkg); err != nil {
			fatal(err)
		}
		fmt.Printf(ColorGreen+"  - %s -> %s"+ColorReset+"\n", c.Name, out)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada em %v"+ColorReset+"\n", time.Since(start).Round(time.Second))
}

func setupEnvironment() {
	// MSYS2 no PATH para o gcc do cgo no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		if p := os.Getenv("PATH"); !strings.Contains(p, msysPath) {
			os.Setenv("PATH", msysPath+";"+p)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
	}
}

func run(name string, cgo bool, args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cgoValue := "0"
	if cgo {
		cgoValue = "1"
	}
	cmd.Env = append(os.Environ(), "CGO_ENABLED="+cgoValue)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
