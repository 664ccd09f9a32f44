package world

import (
	"math"

	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// RaycastHit é o resultado de Raycast.
type RaycastHit struct {
	Hit      bool
	Position util.BlockPos // voxel atingido
	Point    mgl32.Vec3    // ponto de entrada no voxel
	Normal   mgl32.Vec3    // face atingida; zero se a origem já está dentro
	Chunk    util.ChunkKey
	Block    voxel.BlockType
	Distance float32
}

// Adjacent retorna o voxel vizinho à face atingida (onde um bloco seria colocado).
func (h RaycastHit) Adjacent() util.BlockPos {
	return h.Position.Add(int(h.Normal.X()), int(h.Normal.Y()), int(h.Normal.Z()))
}

// BlockAt retorna o bloco da posição global; ar se o chunk não estiver residente.
func (s *Store) BlockAt(pos util.BlockPos) voxel.BlockType {
	key, local := pos.Split(s.opts.ChunkSize)
	rec, ok := s.records[key]
	if !ok || !rec.Resident() {
		return voxel.Air
	}
	return rec.Buffer.At(local.X, local.Y, local.Z)
}

// Raycast percorre os voxels cruzados pelo raio (DDA) até maxDistance e
// devolve o primeiro sólido em um chunk residente.
func (s *Store) Raycast(origin, dir mgl32.Vec3, maxDistance float32) RaycastHit {
	if dir.Len() == 0 || maxDistance <= 0 {
		return RaycastHit{}
	}
	dir = dir.Normalize()

	p := util.BlockAt(origin)
	cell := [3]int{p.X, p.Y, p.Z}

	var step [3]int
	var tMax, tDelta [3]float32
	inf := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		switch {
		case dir[i] > 0:
			step[i] = 1
			tDelta[i] = 1 / dir[i]
			tMax[i] = (float32(cell[i]+1) - origin[i]) / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tDelta[i] = -1 / dir[i]
			tMax[i] = (float32(cell[i]) - origin[i]) / dir[i]
		default:
			tDelta[i] = inf
			tMax[i] = inf
		}
	}

	var normal mgl32.Vec3
	t := float32(0)
	for t <= maxDistance {
		pos := util.BlockPos{X: cell[0], Y: cell[1], Z: cell[2]}
		if b := s.BlockAt(pos); b != voxel.Air {
			key, _ := pos.Split(s.opts.ChunkSize)
			return RaycastHit{
				Hit:      true,
				Position: pos,
				Point:    origin.Add(dir.Mul(t)),
				Normal:   normal,
				Chunk:    key,
				Block:    b,
				Distance: t,
			}
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		normal = mgl32.Vec3{}
		normal[axis] = float32(-step[axis])
	}
	return RaycastHit{}
}
