package voxel

import (
	"errors"
	"fmt"
)

// ErrTransferred é o motivo do panic ao acessar um buffer já transferido.
var ErrTransferred = errors.New("voxel: buffer acessado após transferência")

// Accessor é o contrato comum dos meshers: leitura com verificação de limites,
// devolvendo Air para qualquer coordenada fora do volume.
type Accessor interface {
	Dims() (size, height int)
	At(x, y, z int) BlockType
}

// Buffer armazena densamente os voxels de um chunk (aresta Size, altura Height).
// Índice linear: x + z*Size + y*Size*Size.
//
// Um Buffer tem exatamente um dono. Transfer move o armazenamento para um novo
// cabeçalho e invalida o antigo; qualquer acesso posterior pelo cabeçalho antigo
// entra em panic com ErrTransferred.
type Buffer struct {
	Size   int
	Height int

	blocks   []BlockType
	released bool
}

// New cria um buffer vazio (todo ar).
func New(size, height int) *Buffer {
	if size <= 0 || height <= 0 {
		panic(fmt.Sprintf("voxel: dimensões inválidas %dx%d", size, height))
	}
	return &Buffer{
		Size:   size,
		Height: height,
		blocks: make([]BlockType, size*size*height),
	}
}

func (b *Buffer) check() {
	if b.released {
		panic(ErrTransferred)
	}
}

// Dims implementa Accessor.
func (b *Buffer) Dims() (size, height int) {
	return b.Size, b.Height
}

// In verifica se a coordenada local está dentro do volume.
func (b *Buffer) In(x, y, z int) bool {
	return x >= 0 && x < b.Size && z >= 0 && z < b.Size && y >= 0 && y < b.Height
}

func (b *Buffer) index(x, y, z int) int {
	return x + z*b.Size + y*b.Size*b.Size
}

// At retorna o bloco na coordenada local, ou Air fora dos limites.
func (b *Buffer) At(x, y, z int) BlockType {
	b.check()
	if !b.In(x, y, z) {
		return Air
	}
	return b.blocks[b.index(x, y, z)]
}

// Set grava um bloco. Retorna false se a coordenada estiver fora do volume.
func (b *Buffer) Set(x, y, z int, t BlockType) bool {
	b.check()
	if !b.In(x, y, z) {
		return false
	}
	b.blocks[b.index(x, y, z)] = t
	return true
}

// FillColumn preenche a coluna (x, z) de y0 até y1 (exclusivo).
func (b *Buffer) FillColumn(x, z, y0, y1 int, t BlockType) {
	b.check()
	if y0 < 0 {
		y0 = 0
	}
	if y1 > b.Height {
		y1 = b.Height
	}
	if x < 0 || x >= b.Size || z < 0 || z >= b.Size {
		return
	}
	for y := y0; y < y1; y++ {
		b.blocks[b.index(x, y, z)] = t
	}
}

// Count retorna o número de voxels sólidos.
func (b *Buffer) Count() int {
	b.check()
	n := 0
	for _, t := range b.blocks {
		if t != Air {
			n++
		}
	}
	return n
}

// Clone faz uma cópia profunda. O clone tem dono próprio.
func (b *Buffer) Clone() *Buffer {
	b.check()
	c := &Buffer{Size: b.Size, Height: b.Height, blocks: make([]BlockType, len(b.blocks))}
	copy(c.blocks, b.blocks)
	return c
}

// Transfer move o armazenamento para um novo cabeçalho e invalida este.
// Não há cópia: o receptor passa a ser o único dono.
func (b *Buffer) Transfer() *Buffer {
	b.check()
	moved := &Buffer{Size: b.Size, Height: b.Height, blocks: b.blocks}
	b.blocks = nil
	b.released = true
	return moved
}

// Released informa se o buffer já foi transferido.
func (b *Buffer) Released() bool {
	return b.released
}

// Equal compara dimensões e conteúdo.
func (b *Buffer) Equal(o *Buffer) bool {
	b.check()
	o.check()
	if b.Size != o.Size || b.Height != o.Height {
		return false
	}
	for i := range b.blocks {
		if b.blocks[i] != o.blocks[i] {
			return false
		}
	}
	return true
}
