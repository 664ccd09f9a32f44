package gpu

import (
	"testing"

	"VoxelStream/shared/voxel"
)

func TestDebrisLifetime(t *testing.T) {
	d := NewDebris(8, 1)
	d.Burst(0, 4, 0, voxel.Color(voxel.Dirt), 12)
	if got := d.Active(); got != 8 {
		t.Fatalf("Active after burst = %d, want 8 (buffer size)", got)
	}

	startY := d.Particles[0].Position.Y
	d.Update(0.1)
	if d.Particles[0].Position.Y == startY {
		t.Error("particle did not move")
	}

	for i := 0; i < 20; i++ {
		d.Update(0.1)
	}
	if got := d.Active(); got != 0 {
		t.Errorf("Active after 2s = %d, want 0", got)
	}
}
