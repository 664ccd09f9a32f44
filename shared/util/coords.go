package util

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkKey identifica uma coluna de chunk no plano horizontal (unidades de chunk).
type ChunkKey struct {
	X, Z int
}

// BlockPos é uma coordenada global de voxel.
// X = leste/oeste, Y = altura, Z = norte/sul.
type BlockPos struct {
	X, Y, Z int
}

// LocalPos é uma coordenada dentro de um chunk (0..S-1, 0..H-1, 0..S-1).
type LocalPos struct {
	X, Y, Z int
}

// String retorna a representação em string da chave.
func (k ChunkKey) String() string {
	return fmt.Sprintf("(%d, %d)", k.X, k.Z)
}

// Add desloca a chave em unidades de chunk.
func (k ChunkKey) Add(dx, dz int) ChunkKey {
	return ChunkKey{X: k.X + dx, Z: k.Z + dz}
}

// Chebyshev retorna a distância máxima por eixo entre duas chaves.
// É a métrica usada para carregar e descarregar chunks.
func (k ChunkKey) Chebyshev(other ChunkKey) int {
	return Max(Abs(k.X-other.X), Abs(k.Z-other.Z))
}

// Origin retorna o voxel global do canto (0,0,0) do chunk.
func (k ChunkKey) Origin(size int) BlockPos {
	return BlockPos{X: k.X * size, Y: 0, Z: k.Z * size}
}

// String retorna a representação em string da coordenada.
func (p BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Add soma duas coordenadas.
func (p BlockPos) Add(dx, dy, dz int) BlockPos {
	return BlockPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Split separa a coordenada global em chave de chunk e coordenada local.
// Usa divisão com piso para que coordenadas negativas caiam no chunk correto.
func (p BlockPos) Split(size int) (ChunkKey, LocalPos) {
	cx := FloorDiv(p.X, size)
	cz := FloorDiv(p.Z, size)
	return ChunkKey{X: cx, Z: cz}, LocalPos{
		X: p.X - cx*size,
		Y: p.Y,
		Z: p.Z - cz*size,
	}
}

// Vec3 retorna o canto mínimo do voxel no espaço do mundo.
func (p BlockPos) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

// OnEdge informa se a coordenada local está na borda horizontal do chunk.
func (l LocalPos) OnEdge(size int) bool {
	return l.X == 0 || l.X == size-1 || l.Z == 0 || l.Z == size-1
}

// Global converte uma coordenada local de volta para o espaço global.
func (l LocalPos) Global(key ChunkKey, size int) BlockPos {
	o := key.Origin(size)
	return BlockPos{X: o.X + l.X, Y: l.Y, Z: o.Z + l.Z}
}

// BlockAt retorna o voxel que contém um ponto do mundo.
func BlockAt(pos mgl32.Vec3) BlockPos {
	return BlockPos{
		X: int(math.Floor(float64(pos.X()))),
		Y: int(math.Floor(float64(pos.Y()))),
		Z: int(math.Floor(float64(pos.Z()))),
	}
}

// ChunkAt retorna a chave do chunk que contém um ponto do mundo.
func ChunkAt(pos mgl32.Vec3, size int) ChunkKey {
	key, _ := BlockAt(pos).Split(size)
	return key
}
