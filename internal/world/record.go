package world

import (
	"fmt"

	"VoxelStream/internal/meshing"
	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"
)

// State é a fase do ciclo de vida de um chunk.
type State int

const (
	Empty        State = iota // registrado, sem pedido
	Requested                 // generate em voo
	Generated                 // buffer residente e malha instalada
	Regenerating              // regenerate em voo; buffer continua residente
	Failed                    // sem retentativas até ser descarregado
	Evicted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Requested:
		return "Requested"
	case Generated:
		return "Generated"
	case Regenerating:
		return "Regenerating"
	case Failed:
		return "Failed"
	case Evicted:
		return "Evicted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Record é o estado de um chunk no store.
type Record struct {
	Key        util.ChunkKey
	State      State
	Buffer     *voxel.Buffer
	Mesh       *Geometry
	Generation uint64 // do pedido em voo ou da última malha instalada
	Retries    int
	Dirty      bool  // editado durante um regenerate; precisa de outro
	Err        error // última falha; zerado ao instalar uma malha

	sides uint8 // bordas de vizinhos usadas na última malha (bit = voxel.Side)
}

// Resident informa se o buffer do chunk está no coordenador.
func (r *Record) Resident() bool {
	return r.Buffer != nil && (r.State == Generated || r.State == Regenerating)
}

// Geometry é a malha instalada de um chunk.
type Geometry struct {
	Key        util.ChunkKey
	Generation uint64
	Mesh       meshing.MeshBuffers
}

// GeometryPool é a lista livre de Geometry. Os arrays das malhas
// descartadas voltam para o pool do meshing.
type GeometryPool struct {
	free   []*Geometry
	allocs int
	reuses int
}

// Get retorna uma Geometry, reaproveitando uma da lista livre se houver.
func (p *GeometryPool) Get(key util.ChunkKey, generation uint64, mesh meshing.MeshBuffers) *Geometry {
	var g *Geometry
	if n := len(p.free); n > 0 {
		g = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.reuses++
	} else {
		g = &Geometry{}
		p.allocs++
	}
	g.Key = key
	g.Generation = generation
	g.Mesh = mesh
	return g
}

// Put devolve g à lista livre. O renderer já não pode referenciar a malha.
func (p *GeometryPool) Put(g *Geometry) {
	if g == nil {
		return
	}
	meshing.Recycle(g.Mesh)
	*g = Geometry{}
	p.free = append(p.free, g)
}

// Len retorna o tamanho da lista livre.
func (p *GeometryPool) Len() int { return len(p.free) }
