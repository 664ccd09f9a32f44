package survey

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"VoxelStream/internal/meshing"
	"VoxelStream/internal/terrain"
	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoMeshers = errors.New("survey: nenhum mesher")

// Options descreve uma comparação de meshers sobre um conjunto de chunks.
type Options struct {
	Source  terrain.Source
	Meshers []meshing.Mesher
	Keys    []util.ChunkKey
	Size    int
	Height  int
	Workers int
}

// Totals acumula os números de um mesher.
type Totals struct {
	Name        string
	Quads       int
	Vertices    int
	Indices     int
	SurfaceArea float64
	Build       time.Duration
}

// Mismatch registra um chunk em que os meshers discordam.
type Mismatch struct {
	Key    util.ChunkKey
	Reason string
}

// Report é o resultado de Run.
type Report struct {
	Chunks       int
	Solid        int
	EncodedBytes int // soma dos buffers serializados (zstd)
	Totals       []Totals
	Mismatches   []Mismatch
	Failures     []error
}

// Consistent informa se todos os meshers cobriram a mesma área com a mesma
// caixa envolvente em todos os chunks, e se nada falhou.
func (r Report) Consistent() bool {
	return len(r.Mismatches) == 0 && len(r.Failures) == 0
}

// Square lista as chaves a até radius chunks (Chebyshev) de (0, 0).
func Square(radius int) []util.ChunkKey {
	var keys []util.ChunkKey
	for z := -radius; z <= radius; z++ {
		for x := -radius; x <= radius; x++ {
			keys = append(keys, util.ChunkKey{X: x, Z: z})
		}
	}
	return keys
}

type chunkStats struct {
	quads, vertices, indices int
	area                     float32
	min, max                 mgl32.Vec3
	ok                       bool
	build                    time.Duration
}

// Run gera cada chunk, passa por todos os meshers e compara os resultados.
// Os chunks são processados em paralelo num pool de goroutines.
func Run(ctx context.Context, opts Options) (Report, error) {
	if len(opts.Meshers) == 0 {
		return Report{}, ErrNoMeshers
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	report := Report{Totals: make([]Totals, len(opts.Meshers))}
	for i, m := range opts.Meshers {
		report.Totals[i].Name = m.Name()
	}

	var mu sync.Mutex
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, key := range opts.Keys {
		group.Submit(func() {
			if ctx.Err() != nil {
				return
			}

			solid, encoded, stats, err := surveyChunk(ctx, opts, key)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, fmt.Errorf("%v: %w", key, err))
				return
			}
			report.Chunks++
			report.Solid += solid
			report.EncodedBytes += encoded
			for i, st := range stats {
				t := &report.Totals[i]
				t.Quads += st.quads
				t.Vertices += st.vertices
				t.Indices += st.indices
				t.SurfaceArea += float64(st.area)
				t.Build += st.build
			}
			if reason := compare(opts.Meshers, stats); reason != "" {
				report.Mismatches = append(report.Mismatches, Mismatch{Key: key, Reason: reason})
			}
		})
	}
	if err := group.Wait(); err != nil {
		// pond converte o pânico de uma tarefa em erro
		report.Failures = append(report.Failures, err)
	}

	sort.Slice(report.Mismatches, func(i, j int) bool {
		a, b := report.Mismatches[i].Key, report.Mismatches[j].Key
		return a.X < b.X || (a.X == b.X && a.Z < b.Z)
	})
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func surveyChunk(ctx context.Context, opts Options, key util.ChunkKey) (int, int, []chunkStats, error) {
	buf, err := opts.Source.Fill(ctx, key.X, key.Z, opts.Size, opts.Height)
	if err != nil {
		return 0, 0, nil, err
	}

	data, err := voxel.Marshal(buf)
	if err != nil {
		return 0, 0, nil, err
	}
	back, err := voxel.Unmarshal(data)
	if err != nil {
		return 0, 0, nil, err
	}
	if !back.Equal(buf) {
		return 0, 0, nil, fmt.Errorf("%w: round trip alterou o chunk", voxel.ErrCorrupt)
	}

	stats := make([]chunkStats, len(opts.Meshers))
	for i, m := range opts.Meshers {
		start := time.Now()
		mesh := m.Build(buf)
		stats[i].build = time.Since(start)

		if err := mesh.Validate(); err != nil {
			return 0, 0, nil, fmt.Errorf("%s: %w", m.Name(), err)
		}
		stats[i].quads = mesh.QuadCount()
		stats[i].vertices = mesh.VertexCount()
		stats[i].indices = len(mesh.Indices)
		stats[i].area = mesh.SurfaceArea()
		stats[i].min, stats[i].max, stats[i].ok = mesh.Bounds()
		meshing.Recycle(mesh)
	}
	return buf.Count(), len(data), stats, nil
}

func compare(meshers []meshing.Mesher, stats []chunkStats) string {
	ref := stats[0]
	for i := 1; i < len(stats); i++ {
		st := stats[i]
		if math.Abs(float64(st.area-ref.area)) > 1e-3*math.Max(1, float64(ref.area)) {
			return fmt.Sprintf("área %s=%v %s=%v", meshers[0].Name(), ref.area, meshers[i].Name(), st.area)
		}
		if st.ok != ref.ok || st.min != ref.min || st.max != ref.max {
			return fmt.Sprintf("bounds %s=%v..%v %s=%v..%v", meshers[0].Name(), ref.min, ref.max, meshers[i].Name(), st.min, st.max)
		}
	}
	return ""
}
