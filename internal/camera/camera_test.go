package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOffsetDistance(t *testing.T) {
	tests := []struct{ yaw, pitch, dist float32 }{
		{0, 0, 10},
		{mgl32.DegToRad(45), mgl32.DegToRad(-35), 60},
		{mgl32.DegToRad(-120), mgl32.DegToRad(-89), 5},
	}
	for _, tt := range tests {
		got := Offset(tt.yaw, tt.pitch, tt.dist).Len()
		if !mgl32.FloatEqualThreshold(got, tt.dist, 1e-3) {
			t.Errorf("Offset(%v, %v, %v).Len() = %v, want %v", tt.yaw, tt.pitch, tt.dist, got, tt.dist)
		}
	}
}

func TestOffsetLooksDown(t *testing.T) {
	if y := Offset(0, mgl32.DegToRad(-30), 10).Y(); y <= 0 {
		t.Errorf("camera with negative pitch should sit above target, Y = %v", y)
	}
}

func TestUpdateConverges(t *testing.T) {
	c := &Orbit{SmoothFactor: 0.5, TargetZoom: 20, CurrentZoom: 10, TargetLookAt: mgl32.Vec3{8, 0, 8}}
	for i := 0; i < 200; i++ {
		c.Update(1.0 / 60)
	}
	if !c.CurrentLookAt.ApproxEqualThreshold(c.TargetLookAt, 1e-3) {
		t.Errorf("CurrentLookAt = %v, want %v", c.CurrentLookAt, c.TargetLookAt)
	}
	if !mgl32.FloatEqualThreshold(c.CurrentZoom, 20, 1e-3) {
		t.Errorf("CurrentZoom = %v, want 20", c.CurrentZoom)
	}
}
