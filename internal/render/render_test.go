package render

import (
	"testing"

	"VoxelStream/internal/meshing"
	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"
)

func TestMemoryInstallDetach(t *testing.T) {
	m := NewMemory()
	b := voxel.New(2, 2)
	b.Set(0, 0, 0, voxel.Stone)
	mesh := meshing.FaceCulling{}.Build(b)

	key := util.ChunkKey{X: 1, Z: -1}
	m.Install(key, mesh)
	m.Install(key, mesh)
	mesh.Positions[0] = 42

	got, ok := m.Mesh(key)
	if !ok || got.QuadCount() != 6 {
		t.Fatalf("Mesh(%v) = %d quads, %v, want 6, true", key, got.QuadCount(), ok)
	}
	if got.Positions[0] == 42 {
		t.Error("Memory kept a reference to the caller's arrays")
	}

	m.Detach(key)
	m.Detach(key)
	if installs, detaches := m.Counts(); installs != 2 || detaches != 1 || m.Len() != 0 {
		t.Errorf("Counts = %d, %d, Len = %d, want 2, 1, 0", installs, detaches, m.Len())
	}
}
