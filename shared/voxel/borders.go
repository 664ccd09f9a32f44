package voxel

// Side identifica uma das quatro faces horizontais de um chunk.
type Side int

const (
	SideNegX Side = iota
	SidePosX
	SideNegZ
	SidePosZ
)

// Sides lista as quatro faces horizontais na ordem dos índices.
var Sides = [4]Side{SideNegX, SidePosX, SideNegZ, SidePosZ}

// Offset retorna o deslocamento em unidades de chunk do vizinho deste lado.
func (s Side) Offset() (dx, dz int) {
	switch s {
	case SideNegX:
		return -1, 0
	case SidePosX:
		return 1, 0
	case SideNegZ:
		return 0, -1
	case SidePosZ:
		return 0, 1
	}
	return 0, 0
}

// Opposite retorna o lado oposto.
func (s Side) Opposite() Side {
	return s ^ 1
}

// Borders guarda cópias dos planos de borda dos vizinhos horizontais.
// Cada plano tem Height*Size entradas, índice y*Size + t, onde t é z para os
// lados X e x para os lados Z. Planos nil são tratados como ar.
type Borders struct {
	Planes [4][]BlockType
}

// EdgeOf copia o plano de borda do próprio buffer no lado indicado.
// Ex.: SidePosX devolve a fatia x = Size-1.
func EdgeOf(b *Buffer, side Side) []BlockType {
	b.check()
	s := b.Size
	plane := make([]BlockType, s*b.Height)
	for y := 0; y < b.Height; y++ {
		for t := 0; t < s; t++ {
			var x, z int
			switch side {
			case SideNegX:
				x, z = 0, t
			case SidePosX:
				x, z = s-1, t
			case SideNegZ:
				x, z = t, 0
			case SidePosZ:
				x, z = t, s-1
			}
			plane[y*s+t] = b.blocks[b.index(x, y, z)]
		}
	}
	return plane
}

// Set registra o plano do vizinho que fica no lado indicado deste chunk.
func (bd *Borders) Set(side Side, plane []BlockType) {
	bd.Planes[side] = plane
}

// Empty informa se nenhum plano foi registrado.
func (bd *Borders) Empty() bool {
	if bd == nil {
		return true
	}
	for _, p := range bd.Planes {
		if p != nil {
			return false
		}
	}
	return true
}

// Bordered é um Accessor que responde uma posição além da borda horizontal
// usando os planos dos vizinhos. Fora disso devolve Air.
type Bordered struct {
	Buf     *Buffer
	Borders *Borders
}

// Dims implementa Accessor.
func (a Bordered) Dims() (size, height int) {
	return a.Buf.Dims()
}

// At implementa Accessor.
func (a Bordered) At(x, y, z int) BlockType {
	s, h := a.Buf.Size, a.Buf.Height
	if y < 0 || y >= h {
		return Air
	}
	inX := x >= 0 && x < s
	inZ := z >= 0 && z < s
	if inX && inZ {
		return a.Buf.At(x, y, z)
	}
	if a.Borders == nil {
		return Air
	}

	var plane []BlockType
	var t int
	switch {
	case x == -1 && inZ:
		plane, t = a.Borders.Planes[SideNegX], z
	case x == s && inZ:
		plane, t = a.Borders.Planes[SidePosX], z
	case z == -1 && inX:
		plane, t = a.Borders.Planes[SideNegZ], x
	case z == s && inX:
		plane, t = a.Borders.Planes[SidePosZ], x
	default:
		return Air
	}
	if len(plane) != s*h {
		return Air
	}
	return plane[y*s+t]
}
