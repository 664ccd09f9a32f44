package camera

import (
	"math"

	"VoxelStream/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Orbit é uma câmera que orbita um ponto alvo no chão.
// O estado fica em mgl32; o rl.Camera3D é derivado a cada frame.
type Orbit struct {
	RLCamera rl.Camera3D

	MinZoom      float32
	MaxZoom      float32
	MoveSpeed    float32
	RotateSpeed  float32
	ZoomSpeed    float32
	SmoothFactor float32 // 0.0 a 1.0 (quanto menor, mais suave)

	// Alvo (para interpolação)
	TargetLookAt mgl32.Vec3
	TargetZoom   float32
	Yaw          float32 // radianos, em torno de Y
	Pitch        float32 // radianos, negativo olha para baixo

	CurrentLookAt mgl32.Vec3
	CurrentZoom   float32
}

// New cria uma câmera olhando para target.
func New(target mgl32.Vec3, fov float32) *Orbit {
	c := &Orbit{
		MinZoom:      5.0,
		MaxZoom:      300.0,
		MoveSpeed:    40.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    10.0,
		SmoothFactor: 0.15,

		TargetLookAt: target,
		TargetZoom:   60.0,
		Yaw:          mgl32.DegToRad(45),
		Pitch:        mgl32.DegToRad(-35),
	}
	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom

	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       fov,
		Projection: rl.CameraPerspective,
	}
	c.apply()
	return c
}

// Update interpola em direção ao alvo e recalcula a posição.
func (c *Orbit) Update(dt float32) {
	factor := c.SmoothFactor * 60.0 * dt // normaliza para 60 FPS
	if factor > 1.0 {
		factor = 1.0
	}
	c.CurrentLookAt = c.CurrentLookAt.Add(c.TargetLookAt.Sub(c.CurrentLookAt).Mul(factor))
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)
	c.apply()
}

// Offset retorna o vetor do alvo até a câmera para os ângulos e distância dados.
// Coordenadas esféricas: yaw em torno de Y, pitch como elevação.
func Offset(yaw, pitch, dist float32) mgl32.Vec3 {
	cosP := float32(math.Cos(float64(pitch)))
	sinP := float32(math.Sin(float64(pitch)))
	cosY := float32(math.Cos(float64(yaw)))
	sinY := float32(math.Sin(float64(yaw)))
	return mgl32.Vec3{dist * cosP * sinY, dist * -sinP, dist * cosP * cosY}
}

func (c *Orbit) apply() {
	pos := c.CurrentLookAt.Add(Offset(c.Yaw, c.Pitch, c.CurrentZoom))
	c.RLCamera.Position = rl.Vector3{X: pos.X(), Y: pos.Y(), Z: pos.Z()}
	c.RLCamera.Target = rl.Vector3{X: c.CurrentLookAt.X(), Y: c.CurrentLookAt.Y(), Z: c.CurrentLookAt.Z()}
}

// Position é a posição atual da câmera no mundo.
func (c *Orbit) Position() mgl32.Vec3 {
	p := c.RLCamera.Position
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// MouseRay retorna origem e direção (normalizada) do raio sob o cursor.
func (c *Orbit) MouseRay() (origin, dir mgl32.Vec3) {
	ray := rl.GetMouseRay(rl.GetMousePosition(), c.RLCamera)
	return mgl32.Vec3{ray.Position.X, ray.Position.Y, ray.Position.Z},
		mgl32.Vec3{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}.Normalize()
}

// HandleInput processa zoom (scroll), órbita (botão do meio) e WASD.
// Retorna true se houve movimento.
func (c *Orbit) HandleInput(dt float32) bool {
	moved := false

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		moved = true
		c.TargetZoom = mgl32.Clamp(c.TargetZoom-wheel*c.ZoomSpeed, c.MinZoom, c.MaxZoom)
	}

	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true
		}
		c.Yaw -= delta.X * c.RotateSpeed * 0.005
		c.Pitch -= delta.Y * c.RotateSpeed * 0.005
		// Entre -89 (topo) e -5 graus (horizonte)
		c.Pitch = mgl32.Clamp(c.Pitch, mgl32.DegToRad(-89), mgl32.DegToRad(-5))
	}

	// Frente e direita projetadas no plano XZ
	forward := Offset(c.Yaw, c.Pitch, 1).Mul(-1)
	forward[1] = 0
	forward = forward.Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	move := mgl32.Vec3{}
	if rl.IsKeyDown(rl.KeyW) {
		move = move.Add(forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = move.Sub(forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = move.Add(right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = move.Sub(right)
	}
	if move.Len() > 0 {
		// Quanto mais longe, mais rápido
		speed := c.MoveSpeed * (c.CurrentZoom / 50.0) * dt
		c.TargetLookAt = c.TargetLookAt.Add(move.Normalize().Mul(speed))
		moved = true
	}
	return moved
}
