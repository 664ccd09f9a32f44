package world

import (
	"fmt"
	"log"

	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"
)

// Editor traduz edições do mundo em mutação do buffer residente, nova malha
// e invalidação dos vizinhos de borda.
type Editor struct {
	store *Store
}

// NewEditor cria um editor para o store.
func NewEditor(s *Store) *Editor {
	return &Editor{store: s}
}

// Place coloca um bloco na posição global. Substitui o que houver.
func (e *Editor) Place(pos util.BlockPos, block voxel.BlockType) error {
	if block == voxel.Air || int(block) >= len(voxel.BlockList) {
		return fmt.Errorf("%w: %d", ErrInvalidBlock, block)
	}
	return e.store.edit(pos, block)
}

// Remove troca o bloco da posição global por ar.
func (e *Editor) Remove(pos util.BlockPos) error {
	return e.store.edit(pos, voxel.Air)
}

func (s *Store) edit(pos util.BlockPos, block voxel.BlockType) error {
	size := s.opts.ChunkSize
	key, local := pos.Split(size)

	rec, ok := s.records[key]
	if !ok || !rec.Resident() {
		return fmt.Errorf("%w: chunk %v não está gerado", ErrOutOfChunkBounds, key)
	}
	if local.Y < 0 || local.Y >= s.opts.ChunkHeight {
		return fmt.Errorf("%w: y=%d fora de [0, %d)", ErrOutOfChunkBounds, pos.Y, s.opts.ChunkHeight)
	}

	current := rec.Buffer.At(local.X, local.Y, local.Z)
	if block == voxel.Air && current == voxel.Air {
		return fmt.Errorf("%w em %v", ErrNothingToRemove, pos)
	}
	if current == block {
		return nil
	}

	rec.Buffer.Set(local.X, local.Y, local.Z, block)
	s.stats.Edits++
	log.Printf("[Editor] %v: %v -> %v (chunk %v)", pos, current, block, key)

	s.requestRegenerate(rec)
	for _, side := range edgeSides(local, size) {
		nb, ok := s.records[key.Add(side.Offset())]
		if ok && nb.Resident() {
			s.requestRegenerate(nb)
		}
	}
	return nil
}

// edgeSides lista os lados horizontais em que a coordenada local encosta.
func edgeSides(l util.LocalPos, size int) []voxel.Side {
	var sides []voxel.Side
	if l.X == 0 {
		sides = append(sides, voxel.SideNegX)
	}
	if l.X == size-1 {
		sides = append(sides, voxel.SidePosX)
	}
	if l.Z == 0 {
		sides = append(sides, voxel.SideNegZ)
	}
	if l.Z == size-1 {
		sides = append(sides, voxel.SidePosZ)
	}
	return sides
}
