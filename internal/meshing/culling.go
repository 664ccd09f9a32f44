package meshing

import (
	"VoxelStream/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// FaceCulling emite uma face por voxel sólido sempre que o vizinho
// naquela direção é AIR. Sem fusão: cada face é um quad unitário.
type FaceCulling struct{}

func (FaceCulling) Name() string { return "culling" }

type cubeFace struct {
	dx, dy, dz int
	normal     mgl32.Vec3
	corners    [4]mgl32.Vec3 // anti-horário visto de fora
}

var unitUVs = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

var cubeFaces = [6]cubeFace{
	{1, 0, 0, mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{-1, 0, 0, mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{0, 1, 0, mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{0, -1, 0, mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{0, 0, 1, mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{0, 0, -1, mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

// Build percorre o volume em y, z, x. Vizinhos fora do chunk vêm do
// Accessor (AIR, ou a borda do vizinho quando disponível).
func (FaceCulling) Build(a voxel.Accessor) MeshBuffers {
	size, height := a.Dims()
	buf := GetMeshBuffer()
	defer PutMeshBuffer(buf)

	for y := 0; y < height; y++ {
		for z := 0; z < size; z++ {
			for x := 0; x < size; x++ {
				t := a.At(x, y, z)
				if t == voxel.Air {
					continue
				}
				base := mgl32.Vec3{float32(x), float32(y), float32(z)}
				color := voxel.Color(t)
				for i := range cubeFaces {
					f := &cubeFaces[i]
					if a.At(x+f.dx, y+f.dy, z+f.dz) != voxel.Air {
						continue
					}
					var corners [4]mgl32.Vec3
					for c := range corners {
						corners[c] = base.Add(f.corners[c])
					}
					buf.AddQuad(corners, unitUVs, f.normal, color)
				}
			}
		}
	}
	return buf.Take()
}
