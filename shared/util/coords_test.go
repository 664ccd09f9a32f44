package util

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		pos       BlockPos
		size      int
		wantKey   ChunkKey
		wantLocal LocalPos
	}{
		{BlockPos{0, 3, 0}, 16, ChunkKey{0, 0}, LocalPos{0, 3, 0}},
		{BlockPos{15, 0, 15}, 16, ChunkKey{0, 0}, LocalPos{15, 0, 15}},
		{BlockPos{16, 0, 31}, 16, ChunkKey{1, 1}, LocalPos{0, 0, 15}},
		{BlockPos{-1, 5, -16}, 16, ChunkKey{-1, -1}, LocalPos{15, 5, 0}},
		{BlockPos{-17, 0, 4}, 16, ChunkKey{-2, 0}, LocalPos{15, 0, 4}},
	}

	for _, tt := range tests {
		key, local := tt.pos.Split(tt.size)
		if key != tt.wantKey || local != tt.wantLocal {
			t.Errorf("%v.Split(%d) = %v, %v, want %v, %v", tt.pos, tt.size, key, local, tt.wantKey, tt.wantLocal)
		}
		if back := local.Global(key, tt.size); back != tt.pos {
			t.Errorf("Global(%v, %v) = %v, want %v", local, key, back, tt.pos)
		}
	}
}

func TestChebyshev(t *testing.T) {
	tests := []struct {
		a, b ChunkKey
		want int
	}{
		{ChunkKey{0, 0}, ChunkKey{0, 0}, 0},
		{ChunkKey{0, 0}, ChunkKey{3, -1}, 3},
		{ChunkKey{-2, 5}, ChunkKey{1, 1}, 4},
	}

	for _, tt := range tests {
		if got := tt.a.Chebyshev(tt.b); got != tt.want {
			t.Errorf("%v.Chebyshev(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBlockAt(t *testing.T) {
	got := BlockAt(mgl32.Vec3{-0.5, 2.99, 7})
	want := BlockPos{-1, 2, 7}
	if got != want {
		t.Errorf("BlockAt = %v, want %v", got, want)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 4, 1}, {-1, 4, -1}, {-4, 4, -1}, {-5, 4, -2}, {0, 4, 0},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestUniqueQueue(t *testing.T) {
	q := NewUniqueQueue[ChunkKey, int]()
	if !q.Enqueue(ChunkKey{1, 1}, 1) {
		t.Fatal("first enqueue should add")
	}
	if q.Enqueue(ChunkKey{1, 1}, 2) {
		t.Fatal("second enqueue of same key should update")
	}
	q.Enqueue(ChunkKey{2, 2}, 3)
	q.Remove(ChunkKey{2, 2})

	k, v, ok := q.Dequeue()
	if !ok || k != (ChunkKey{1, 1}) || v != 2 {
		t.Errorf("Dequeue = %v, %d, %v, want (1, 1), 2, true", k, v, ok)
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d, want 0", q.Len())
	}
}
