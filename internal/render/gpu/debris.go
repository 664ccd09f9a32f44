package gpu

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Particle é um fragmento de bloco removido.
type Particle struct {
	Position rl.Vector3
	Velocity rl.Vector3
	Color    rl.Color
	Life     float32
	Active   bool
}

const gravity = 18

// Debris solta fragmentos quando um bloco é removido.
type Debris struct {
	Particles    []Particle
	MaxParticles int
	next         int
	rng          *rand.Rand
}

func NewDebris(max int, seed int64) *Debris {
	return &Debris{
		Particles:    make([]Particle, max),
		MaxParticles: max,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Burst emite count fragmentos a partir do centro do bloco em (x, y, z).
// Com o buffer cheio, os mais antigos são reaproveitados.
func (d *Debris) Burst(x, y, z float32, color [3]float32, count int) {
	c := rl.NewColor(uint8(color[0]*255), uint8(color[1]*255), uint8(color[2]*255), 255)
	for i := 0; i < count && d.MaxParticles > 0; i++ {
		p := &d.Particles[d.next]
		d.next = (d.next + 1) % d.MaxParticles

		p.Position = rl.Vector3{X: x + 0.5, Y: y + 0.5, Z: z + 0.5}
		p.Velocity = rl.Vector3{
			X: d.rng.Float32()*4 - 2,
			Y: 2 + d.rng.Float32()*4,
			Z: d.rng.Float32()*4 - 2,
		}
		p.Color = c
		p.Life = 0.6 + d.rng.Float32()*0.6
		p.Active = true
	}
}

func (d *Debris) Update(dt float32) {
	for i := range d.Particles {
		p := &d.Particles[i]
		if !p.Active {
			continue
		}
		p.Life -= dt
		if p.Life <= 0 {
			p.Active = false
			continue
		}
		p.Velocity.Y -= gravity * dt
		p.Position.X += p.Velocity.X * dt
		p.Position.Y += p.Velocity.Y * dt
		p.Position.Z += p.Velocity.Z * dt
	}
}

// Active conta os fragmentos vivos.
func (d *Debris) Active() int {
	n := 0
	for i := range d.Particles {
		if d.Particles[i].Active {
			n++
		}
	}
	return n
}

func (d *Debris) Draw() {
	for i := range d.Particles {
		p := &d.Particles[i]
		if !p.Active {
			continue
		}
		rl.DrawCube(p.Position, 0.12, 0.12, 0.12, p.Color)
	}
}
