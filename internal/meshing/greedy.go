package meshing

import (
	"VoxelStream/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Greedy funde faces coplanares do mesmo tipo em retângulos maximais,
// plano a plano, nos três eixos.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

// Build varre cada eixo d com os eixos de fita u=(d+1)%3 e v=(d+2)%3.
// Para cada plano entre as camadas x[d] e x[d]+1 monta uma máscara com
// sinal: +tipo quando a face aponta para +d, -tipo quando aponta para -d.
// A face pertence ao chunk somente se o voxel sólido estiver dentro dele;
// faces contra vizinhos sólidos (bordas) são descartadas.
func (Greedy) Build(a voxel.Accessor) MeshBuffers {
	size, height := a.Dims()
	dims := [3]int{size, height, size}
	buf := GetMeshBuffer()
	defer PutMeshBuffer(buf)

	var mask []int32
	for d := 0; d < 3; d++ {
		u := (d + 1) % 3
		v := (d + 2) % 3

		var x, q [3]int
		q[d] = 1

		n := dims[u] * dims[v]
		if cap(mask) < n {
			mask = make([]int32, n)
		}
		mask = mask[:n]

		for x[d] = -1; x[d] < dims[d]; {
			// 1. Máscara do plano
			n = 0
			for x[v] = 0; x[v] < dims[v]; x[v]++ {
				for x[u] = 0; x[u] < dims[u]; x[u]++ {
					blockA := a.At(x[0], x[1], x[2])
					blockB := a.At(x[0]+q[0], x[1]+q[1], x[2]+q[2])
					switch {
					case blockA != voxel.Air && blockB == voxel.Air && x[d] >= 0:
						mask[n] = int32(blockA)
					case blockB != voxel.Air && blockA == voxel.Air && x[d]+1 < dims[d]:
						mask[n] = -int32(blockB)
					default:
						mask[n] = 0
					}
					n++
				}
			}

			x[d]++

			// 2. Fusão gulosa: estende em u, depois em v enquanto a linha inteira bater.
			n = 0
			for j := 0; j < dims[v]; j++ {
				for i := 0; i < dims[u]; {
					c := mask[n]
					if c == 0 {
						i++
						n++
						continue
					}

					w := 1
					for i+w < dims[u] && mask[n+w] == c {
						w++
					}

					h := 1
				grow:
					for ; j+h < dims[v]; h++ {
						for k := 0; k < w; k++ {
							if mask[n+k+h*dims[u]] != c {
								break grow
							}
						}
					}

					x[u] = i
					x[v] = j
					var du, dv [3]int
					du[u] = w
					dv[v] = h
					emitGreedyQuad(buf, x, du, dv, c, float32(w), float32(h))

					for l := 0; l < h; l++ {
						for k := 0; k < w; k++ {
							mask[n+k+l*dims[u]] = 0
						}
					}
					i += w
					n += w
				}
			}
		}
	}
	return buf.Take()
}

func vec(p [3]int) mgl32.Vec3 {
	return mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
}

func emitGreedyQuad(buf *MeshBuffer, origin, du, dv [3]int, c int32, w, h float32) {
	p0 := vec(origin)
	eu := vec(du)
	ev := vec(dv)
	p1 := p0.Add(eu)
	p2 := p1.Add(ev)
	p3 := p0.Add(ev)

	// du x dv aponta sempre para +d
	normal := eu.Cross(ev).Normalize()
	t := voxel.BlockType(c)
	if c < 0 {
		t = voxel.BlockType(-c)
		normal = normal.Mul(-1)
		buf.AddQuad([4]mgl32.Vec3{p0, p3, p2, p1},
			[4][2]float32{{0, 0}, {0, h}, {w, h}, {w, 0}}, normal, voxel.Color(t))
		return
	}
	buf.AddQuad([4]mgl32.Vec3{p0, p1, p2, p3},
		[4][2]float32{{0, 0}, {w, 0}, {w, h}, {0, h}}, normal, voxel.Color(t))
}
