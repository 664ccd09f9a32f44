package terrain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"
)

var (
	ErrInvalidDims   = errors.New("terrain: dimensões inválidas")
	ErrFillFailed    = errors.New("terrain: falha ao preencher chunk")
	ErrUnknownSource = errors.New("terrain: fonte desconhecida")
)

// Source produz o volume inicial de um chunk. Implementações devem ser puras:
// a mesma chave gera sempre o mesmo buffer, em qualquer goroutine.
type Source interface {
	Fill(ctx context.Context, chunkX, chunkZ, size, height int) (*voxel.Buffer, error)
}

// Factory constrói uma Source a partir da seed do mundo.
// Cada worker cria a sua no Init.
type Factory func(seed int64) Source

// ByName devolve a Factory configurada ("simplex" ou "flat").
func ByName(name string) (Factory, error) {
	switch strings.ToLower(name) {
	case "simplex", "":
		return func(seed int64) Source { return NewSimplex(seed) }, nil
	case "flat":
		return func(int64) Source { return Flat{Level: 4, Block: voxel.Grass} }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

func checkDims(size, height int) error {
	if size <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDims, size, height)
	}
	return nil
}

// Flat preenche todas as colunas até Level (exclusivo) com Block, e a
// camada y=0 com bedrock.
type Flat struct {
	Level int
	Block voxel.BlockType
}

func (f Flat) Fill(ctx context.Context, chunkX, chunkZ, size, height int) (*voxel.Buffer, error) {
	if err := checkDims(size, height); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := voxel.New(size, height)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			b.FillColumn(x, z, 0, f.Level, f.Block)
			if f.Level > 0 {
				b.Set(x, 0, z, voxel.Bedrock)
			}
		}
	}
	return b, nil
}

// Failing envolve uma Source e falha os primeiros Failures preenchimentos
// de cada chave. Failures < 0 falha sempre.
type Failing struct {
	Inner    Source
	Failures int

	mu    sync.Mutex
	calls map[util.ChunkKey]int
}

func (f *Failing) Fill(ctx context.Context, chunkX, chunkZ, size, height int) (*voxel.Buffer, error) {
	key := util.ChunkKey{X: chunkX, Z: chunkZ}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[util.ChunkKey]int)
	}
	f.calls[key]++
	n := f.calls[key]
	f.mu.Unlock()

	if f.Failures < 0 || n <= f.Failures {
		return nil, fmt.Errorf("%w: %v (tentativa %d)", ErrFillFailed, key, n)
	}
	return f.Inner.Fill(ctx, chunkX, chunkZ, size, height)
}

// Calls retorna quantas vezes a chave foi pedida.
func (f *Failing) Calls(key util.ChunkKey) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}
