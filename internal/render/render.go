package render

import (
	"sync"

	"VoxelStream/internal/meshing"
	"VoxelStream/shared/util"
)

// Renderer recebe malhas prontas do ChunkStore. Ele não desenha nada por
// conta do store; apenas guarda o que for instalado.
//
// Contrato: Install substitui a malha anterior da chave. Depois que Install
// (substituindo) ou Detach retornam, o renderer não pode mais referenciar os
// arrays recebidos antes; o store devolve esses arrays ao pool.
type Renderer interface {
	Install(key util.ChunkKey, mesh meshing.MeshBuffers)
	Detach(key util.ChunkKey)
}

// Memory é um Renderer sem GPU. Guarda cópias das malhas instaladas.
type Memory struct {
	mu       sync.Mutex
	meshes   map[util.ChunkKey]meshing.MeshBuffers
	installs int
	detaches int
}

// NewMemory cria um renderer em memória.
func NewMemory() *Memory {
	return &Memory{meshes: make(map[util.ChunkKey]meshing.MeshBuffers)}
}

func (m *Memory) Install(key util.ChunkKey, mesh meshing.MeshBuffers) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meshes[key] = mesh.Clone()
	m.installs++
}

func (m *Memory) Detach(key util.ChunkKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.meshes[key]; ok {
		delete(m.meshes, key)
		m.detaches++
	}
}

// Mesh retorna a malha instalada para a chave.
func (m *Memory) Mesh(key util.ChunkKey) (meshing.MeshBuffers, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mesh, ok := m.meshes[key]
	return mesh, ok
}

// Len retorna quantas chaves têm malha instalada.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.meshes)
}

// Counts retorna o total de Install e Detach efetivos.
func (m *Memory) Counts() (installs, detaches int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installs, m.detaches
}
