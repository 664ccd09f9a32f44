package meshing

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"VoxelStream/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshBuffers contém os buffers de vértices de uma malha indexada.
// Positions/Normals/Colors são triplas, UVs são pares, Indices são triplas de triângulo.
type MeshBuffers struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []float32 // opcional
	Indices   []uint32
}

var ErrInvalidMesh = errors.New("meshing: malha inválida")

// Clone cria uma cópia profunda dos dados.
func (g MeshBuffers) Clone() MeshBuffers {
	clone := MeshBuffers{}
	if len(g.Positions) > 0 {
		clone.Positions = append([]float32(nil), g.Positions...)
	}
	if len(g.Normals) > 0 {
		clone.Normals = append([]float32(nil), g.Normals...)
	}
	if len(g.UVs) > 0 {
		clone.UVs = append([]float32(nil), g.UVs...)
	}
	if len(g.Colors) > 0 {
		clone.Colors = append([]float32(nil), g.Colors...)
	}
	if len(g.Indices) > 0 {
		clone.Indices = append([]uint32(nil), g.Indices...)
	}
	return clone
}

// VertexCount retorna o número de vértices.
func (g MeshBuffers) VertexCount() int { return len(g.Positions) / 3 }

// TriangleCount retorna o número de triângulos.
func (g MeshBuffers) TriangleCount() int { return len(g.Indices) / 3 }

// QuadCount retorna o número de quads (dois triângulos cada).
func (g MeshBuffers) QuadCount() int { return len(g.Indices) / 6 }

// Empty informa se não há geometria.
func (g MeshBuffers) Empty() bool { return len(g.Indices) == 0 }

// Validate verifica os invariantes dos buffers.
func (g MeshBuffers) Validate() error {
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("%w: positions com %d floats", ErrInvalidMesh, len(g.Positions))
	}
	if len(g.Normals) != len(g.Positions) {
		return fmt.Errorf("%w: normals=%d positions=%d", ErrInvalidMesh, len(g.Normals), len(g.Positions))
	}
	if len(g.Colors) > 0 && len(g.Colors) != len(g.Positions) {
		return fmt.Errorf("%w: colors=%d positions=%d", ErrInvalidMesh, len(g.Colors), len(g.Positions))
	}
	verts := g.VertexCount()
	if len(g.UVs) > 0 && len(g.UVs) != verts*2 {
		return fmt.Errorf("%w: uvs=%d vértices=%d", ErrInvalidMesh, len(g.UVs), verts)
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d índices", ErrInvalidMesh, len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= verts {
			return fmt.Errorf("%w: índice %d = %d >= %d", ErrInvalidMesh, i, idx, verts)
		}
	}
	return nil
}

// Mesher transforma o volume de um chunk em geometria.
// Build não pode reter o Accessor depois de retornar.
type Mesher interface {
	Name() string
	Build(a voxel.Accessor) MeshBuffers
}

var ErrUnknownMesher = errors.New("meshing: mesher desconhecido")

// ByName devolve o mesher configurado ("culling" ou "greedy").
func ByName(name string) (Mesher, error) {
	switch strings.ToLower(name) {
	case "culling", "facecull", "face-culling":
		return FaceCulling{}, nil
	case "greedy", "":
		return Greedy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMesher, name)
}

// Pool global para reciclar MeshBuffers e evitar alocação excessiva (GC Pressure).
var meshBufferPool = sync.Pool{
	New: func() interface{} {
		return &MeshBuffer{
			Geometry: MeshBuffers{
				Positions: make([]float32, 0, 4096),
				Normals:   make([]float32, 0, 4096),
				UVs:       make([]float32, 0, 2048),
				Colors:    make([]float32, 0, 4096),
				Indices:   make([]uint32, 0, 4096),
			},
		}
	},
}

// GetMeshBuffer aloca ou recicla um buffer vazio para meshing.
func GetMeshBuffer() *MeshBuffer {
	return meshBufferPool.Get().(*MeshBuffer)
}

// PutMeshBuffer zera os comprimentos e devolve a memória para o Pool.
func PutMeshBuffer(b *MeshBuffer) {
	if b == nil {
		return
	}
	b.Geometry.Positions = b.Geometry.Positions[:0]
	b.Geometry.Normals = b.Geometry.Normals[:0]
	b.Geometry.UVs = b.Geometry.UVs[:0]
	b.Geometry.Colors = b.Geometry.Colors[:0]
	b.Geometry.Indices = b.Geometry.Indices[:0]
	meshBufferPool.Put(b)
}

// Recycle devolve ao Pool os arrays de uma malha que não é mais referenciada
// (ex.: geometria de um chunk descarregado).
func Recycle(g MeshBuffers) {
	if cap(g.Positions) == 0 {
		return
	}
	PutMeshBuffer(&MeshBuffer{Geometry: g})
}

// MeshBuffer auxilia na construção de malhas dinâmicas.
type MeshBuffer struct {
	Geometry MeshBuffers
}

// AddQuad adiciona uma face retangular com 4 vértices únicos e índices (0,1,2,0,2,3).
// Os cantos devem estar em ordem anti-horária vistos do lado da normal.
func (b *MeshBuffer) AddQuad(corners [4]mgl32.Vec3, uvs [4][2]float32, normal mgl32.Vec3, color [3]float32) {
	g := &b.Geometry
	base := uint32(len(g.Positions) / 3)
	for i, c := range corners {
		g.Positions = append(g.Positions, c[0], c[1], c[2])
		g.Normals = append(g.Normals, normal[0], normal[1], normal[2])
		g.Colors = append(g.Colors, color[0], color[1], color[2])
		g.UVs = append(g.UVs, uvs[i][0], uvs[i][1])
	}
	g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Take entrega a geometria construída e deixa o builder vazio.
// Os arrays passam a pertencer a quem chamou; nada é copiado.
func (b *MeshBuffer) Take() MeshBuffers {
	g := b.Geometry
	b.Geometry = MeshBuffers{}
	return g
}
