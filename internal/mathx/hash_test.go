package mathx

import "testing"

func TestBucketDeterministic(t *testing.T) {
	for x := int32(-8); x < 8; x++ {
		for z := int32(-8); z < 8; z++ {
			a := Bucket(7, x, z, 5)
			b := Bucket(7, x, z, 5)
			if a != b {
				t.Fatalf("Bucket(7, %d, %d, 5) not stable: %d vs %d", x, z, a, b)
			}
			if a < 0 || a >= 5 {
				t.Fatalf("Bucket(7, %d, %d, 5) = %d, out of range", x, z, a)
			}
		}
	}
}

func TestBucketSpread(t *testing.T) {
	counts := make([]int, 4)
	for x := int32(-16); x < 16; x++ {
		for z := int32(-16); z < 16; z++ {
			counts[Bucket(1, x, z, 4)]++
		}
	}
	for i, c := range counts {
		if c == 0 {
			t.Errorf("bucket %d never selected", i)
		}
	}
}

func TestBucketSingle(t *testing.T) {
	if got := Bucket(3, 100, -100, 1); got != 0 {
		t.Errorf("Bucket(n=1) = %d, want 0", got)
	}
}
