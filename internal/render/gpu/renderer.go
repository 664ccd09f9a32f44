package gpu

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"VoxelStream/internal/meshing"
	"VoxelStream/internal/render"
	"VoxelStream/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var _ render.Renderer = (*Renderer)(nil)

// chunkModel é a geometria de um chunk já na GPU.
type chunkModel struct {
	Key       util.ChunkKey
	Model     rl.Model
	Origin    rl.Vector3
	Triangles int
}

// Renderer gerencia o upload e renderização de malhas na GPU.
// Install/Detach/Draw devem rodar na thread principal (contexto OpenGL).
type Renderer struct {
	mu        sync.RWMutex
	chunkSize int
	models    map[util.ChunkKey]*chunkModel
	Wireframe bool
}

// NewRenderer cria um renderizador para chunks de lado chunkSize.
func NewRenderer(chunkSize int) *Renderer {
	return &Renderer{
		chunkSize: chunkSize,
		models:    make(map[util.ChunkKey]*chunkModel),
	}
}

// Install converte a malha em um modelo Raylib, substituindo o anterior.
func (r *Renderer) Install(key util.ChunkKey, mesh meshing.MeshBuffers) {
	// PROTEÇÃO: Não processar se o contexto Raylib não estiver pronto
	if !rl.IsWindowReady() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.unloadLocked(key)
	if mesh.Empty() {
		return
	}

	m := toRaylibMesh(mesh)
	rl.UploadMesh(&m, false)

	o := key.Origin(r.chunkSize)
	r.models[key] = &chunkModel{
		Key:       key,
		Model:     rl.LoadModelFromMesh(m),
		Origin:    rl.Vector3{X: float32(o.X), Y: float32(o.Y), Z: float32(o.Z)},
		Triangles: mesh.TriangleCount(),
	}
}

// Detach libera o modelo da GPU.
func (r *Renderer) Detach(key util.ChunkKey) {
	if !rl.IsWindowReady() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unloadLocked(key)
}

func (r *Renderer) unloadLocked(key util.ChunkKey) {
	if old, ok := r.models[key]; ok {
		rl.UnloadModel(old.Model)
		delete(r.models, key)
	}
}

// toRaylibMesh desindexa os triângulos direto em memória C.
// Renderer libera esses buffers em UnloadModel, então não podem vir do heap do Go.
func toRaylibMesh(g meshing.MeshBuffers) rl.Mesh {
	n := len(g.Indices)
	mesh := rl.Mesh{
		VertexCount:   int32(n),
		TriangleCount: int32(n / 3),
	}

	pos := cFloats(n * 3)
	nor := cFloats(n * 3)
	uv := cFloats(n * 2)
	col := cBytes(n * 4)
	hasUV := len(g.UVs) > 0
	hasColor := len(g.Colors) > 0

	for i, idx := range g.Indices {
		copy(pos[i*3:i*3+3], g.Positions[idx*3:idx*3+3])
		copy(nor[i*3:i*3+3], g.Normals[idx*3:idx*3+3])
		if hasUV {
			copy(uv[i*2:i*2+2], g.UVs[idx*2:idx*2+2])
		}
		c := [3]float32{1, 1, 1}
		if hasColor {
			c = [3]float32{g.Colors[idx*3], g.Colors[idx*3+1], g.Colors[idx*3+2]}
		}
		// Sombreamento simples por face: o topo mais claro que as laterais
		shade := float32(0.8) + 0.2*g.Normals[idx*3+1]
		if shade > 1 {
			shade = 1
		}
		col[i*4] = uint8(c[0] * shade * 255)
		col[i*4+1] = uint8(c[1] * shade * 255)
		col[i*4+2] = uint8(c[2] * shade * 255)
		col[i*4+3] = 255
	}

	mesh.Vertices = &pos[0]
	mesh.Normals = &nor[0]
	mesh.Texcoords = &uv[0]
	mesh.Colors = &col[0]
	return mesh
}

func cFloats(n int) []float32 {
	ptr := C.malloc(C.size_t(n * 4))
	return unsafe.Slice((*float32)(ptr), n)
}

func cBytes(n int) []uint8 {
	ptr := C.malloc(C.size_t(n))
	return unsafe.Slice((*uint8)(ptr), n)
}

// Draw renderiza todos os chunks instalados.
func (r *Renderer) Draw() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.models {
		if r.Wireframe {
			rl.DrawModelWires(m.Model, m.Origin, 1.0, rl.DarkGray)
			continue
		}
		rl.DrawModel(m.Model, m.Origin, 1.0, rl.White)
	}
}

// Stats retorna o número de modelos e triângulos na GPU.
func (r *Renderer) Stats() (models, triangles int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.models {
		triangles += m.Triangles
	}
	return len(r.models), triangles
}

// Unload libera todos os recursos de GPU.
func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.models {
		rl.UnloadModel(m.Model)
	}
	r.models = make(map[util.ChunkKey]*chunkModel)
}
