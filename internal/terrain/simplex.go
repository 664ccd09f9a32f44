package terrain

import (
	"context"

	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"

	"github.com/ojrac/opensimplex-go"
)

// Simplex gera um relevo fractal (fBm) sobre ruído OpenSimplex 2D.
type Simplex struct {
	noise opensimplex.Noise32

	BaseHeight  float32 // fração da altura do chunk
	Amplitude   float32 // em blocos
	Octaves     int
	Lacunarity  float32
	Persistence float32
	Scale       float32
	WaterLevel  int
	SnowLevel   int // fração da altura x 100 a partir da qual neva; 0 desliga
}

// NewSimplex cria um gerador com parâmetros padrão.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{
		noise:       opensimplex.New32(seed),
		BaseHeight:  0.35,
		Amplitude:   10,
		Octaves:     4,
		Lacunarity:  1.5,
		Persistence: 0.5,
		Scale:       48,
		WaterLevel:  0,
		SnowLevel:   80,
	}
}

// fractal soma oitavas de ruído; resultado aproximadamente em [-2A, 2A].
func (s *Simplex) fractal(x, z int) float32 {
	x1 := float32(x)
	z1 := float32(z)
	amplitude := s.Amplitude
	var val float32
	for i := 0; i < s.Octaves; i++ {
		val += s.noise.Eval2(x1/s.Scale, z1/s.Scale) * amplitude
		x1 *= s.Lacunarity
		z1 *= s.Lacunarity
		amplitude *= s.Persistence
	}
	return val
}

// Height retorna a altura do terreno (número de voxels sólidos) na coluna global (x, z).
func (s *Simplex) Height(x, z, height int) int {
	h := int(float32(height)*s.BaseHeight + s.fractal(x, z))
	if h < 1 {
		h = 1
	}
	if h > height-1 {
		h = height - 1
	}
	return h
}

func (s *Simplex) Fill(ctx context.Context, chunkX, chunkZ, size, height int) (*voxel.Buffer, error) {
	if err := checkDims(size, height); err != nil {
		return nil, err
	}
	origin := util.ChunkKey{X: chunkX, Z: chunkZ}.Origin(size)
	snow := height * s.SnowLevel / 100

	b := voxel.New(size, height)
	for z := 0; z < size; z++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < size; x++ {
			top := s.Height(origin.X+x, origin.Z+z, height)

			surface := voxel.Grass
			switch {
			case s.SnowLevel > 0 && top >= snow:
				surface = voxel.Snow
			case top <= s.WaterLevel+1:
				surface = voxel.Sand
			}

			b.FillColumn(x, z, 0, top-3, voxel.Stone)
			b.FillColumn(x, z, util.Max(top-3, 0), top-1, voxel.Dirt)
			b.Set(x, top-1, z, surface)
			b.Set(x, 0, z, voxel.Bedrock)
			if top < s.WaterLevel {
				b.FillColumn(x, z, top, s.WaterLevel, voxel.Water)
			}
		}
	}
	return b, nil
}
