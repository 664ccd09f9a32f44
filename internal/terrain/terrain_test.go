package terrain

import (
	"context"
	"errors"
	"testing"

	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"
)

func TestSimplexDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewSimplex(42).Fill(ctx, -3, 5, 16, 32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSimplex(42).Fill(ctx, -3, 5, 16, 32)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("same seed and key produced different buffers")
	}
	if a.Count() == 0 {
		t.Error("simplex chunk is empty")
	}
}

func TestSimplexColumnsAreGrounded(t *testing.T) {
	s := NewSimplex(7)
	b, err := s.Fill(context.Background(), 2, -1, 8, 24)
	if err != nil {
		t.Fatal(err)
	}
	origin := util.ChunkKey{X: 2, Z: -1}.Origin(8)
	for z := 0; z < 8; z++ {
		for x := 0; x < 8; x++ {
			if b.At(x, 0, z) != voxel.Bedrock {
				t.Fatalf("column (%d, %d) has no bedrock", x, z)
			}
			top := s.Height(origin.X+x, origin.Z+z, 24)
			if top < 1 || top > 23 {
				t.Fatalf("Height(%d, %d) = %d, out of [1, 23]", x, z, top)
			}
			if b.At(x, top, z) != voxel.Air {
				t.Errorf("column (%d, %d) solid above its height %d", x, z, top)
			}
		}
	}
}

func TestSimplexCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSimplex(1).Fill(ctx, 0, 0, 8, 8); !errors.Is(err, context.Canceled) {
		t.Errorf("Fill with cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestFlat(t *testing.T) {
	b, err := Flat{Level: 3, Block: voxel.Dirt}.Fill(context.Background(), 0, 0, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := b.Count(), 4*4*3; got != want {
		t.Errorf("Count = %d, want %d", got, want)
	}
	if b.At(1, 2, 1) != voxel.Dirt || b.At(1, 3, 1) != voxel.Air {
		t.Error("flat column has wrong layering")
	}
}

func TestInvalidDims(t *testing.T) {
	tests := []struct{ size, height int }{{0, 4}, {4, 0}, {-1, -1}}
	for _, tt := range tests {
		if _, err := NewSimplex(1).Fill(context.Background(), 0, 0, tt.size, tt.height); !errors.Is(err, ErrInvalidDims) {
			t.Errorf("Fill(%d, %d) err = %v, want ErrInvalidDims", tt.size, tt.height, err)
		}
	}
}

func TestFailing(t *testing.T) {
	f := &Failing{Inner: Flat{Level: 1, Block: voxel.Stone}, Failures: 2}
	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		if _, err := f.Fill(ctx, 1, 1, 4, 4); !errors.Is(err, ErrFillFailed) {
			t.Fatalf("attempt %d: err = %v, want ErrFillFailed", i, err)
		}
	}
	if _, err := f.Fill(ctx, 1, 1, 4, 4); err != nil {
		t.Fatalf("attempt 3: %v", err)
	}
	if _, err := f.Fill(ctx, 2, 2, 4, 4); !errors.Is(err, ErrFillFailed) {
		t.Errorf("other key should fail independently, got %v", err)
	}
	if got := f.Calls(util.ChunkKey{X: 1, Z: 1}); got != 3 {
		t.Errorf("Calls = %d, want 3", got)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"simplex", "flat"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) = %v", name, err)
		}
	}
	if _, err := ByName("caves"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("ByName(caves) err = %v, want ErrUnknownSource", err)
	}
}
