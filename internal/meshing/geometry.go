package meshing

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quad é uma face extraída de uma malha construída por AddQuad.
type Quad struct {
	Corners [4]mgl32.Vec3
	Normal  mgl32.Vec3
}

func (g MeshBuffers) vertex(i uint32) mgl32.Vec3 {
	return mgl32.Vec3{g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]}
}

// Quads reconstrói os quads a partir do padrão de índices (0,1,2,0,2,3).
func (g MeshBuffers) Quads() []Quad {
	quads := make([]Quad, 0, g.QuadCount())
	for q := 0; q+6 <= len(g.Indices); q += 6 {
		i0, i1, i2, i3 := g.Indices[q], g.Indices[q+1], g.Indices[q+2], g.Indices[q+5]
		quads = append(quads, Quad{
			Corners: [4]mgl32.Vec3{g.vertex(i0), g.vertex(i1), g.vertex(i2), g.vertex(i3)},
			Normal:  mgl32.Vec3{g.Normals[3*i0], g.Normals[3*i0+1], g.Normals[3*i0+2]},
		})
	}
	return quads
}

// WindingNormal é a normal geométrica do quad, dada pela ordem dos cantos.
func (q Quad) WindingNormal() mgl32.Vec3 {
	e1 := q.Corners[1].Sub(q.Corners[0])
	e2 := q.Corners[2].Sub(q.Corners[0])
	return e1.Cross(e2).Normalize()
}

// Area retorna a área do quad.
func (q Quad) Area() float32 {
	e1 := q.Corners[1].Sub(q.Corners[0])
	e2 := q.Corners[3].Sub(q.Corners[0])
	return e1.Cross(e2).Len()
}

// Center retorna o centróide do quad.
func (q Quad) Center() mgl32.Vec3 {
	return q.Corners[0].Add(q.Corners[1]).Add(q.Corners[2]).Add(q.Corners[3]).Mul(0.25)
}

// SurfaceArea soma a área de todos os triângulos.
func (g MeshBuffers) SurfaceArea() float32 {
	var area float64
	for t := 0; t+3 <= len(g.Indices); t += 3 {
		a := g.vertex(g.Indices[t])
		b := g.vertex(g.Indices[t+1])
		c := g.vertex(g.Indices[t+2])
		area += float64(b.Sub(a).Cross(c.Sub(a)).Len()) * 0.5
	}
	return float32(area)
}

// Bounds retorna a caixa envolvente dos vértices referenciados.
func (g MeshBuffers) Bounds() (min, max mgl32.Vec3, ok bool) {
	if len(g.Indices) == 0 {
		return min, max, false
	}
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	for _, idx := range g.Indices {
		v := g.vertex(idx)
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max, true
}
