package field

import (
	"math"

	"github.com/esimov/ascii-cloud/surface"
)

// Particle defines the general components of the particle system.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Opacity float64
	Color   surface.Color
}

// NewParticle spawns a new particle at coordinates defined by {x, y}.
func NewParticle(x, y float64) *Particle {
	return &Particle{X: x, Y: y}
}

// Speed returns the particle velocity magnitude.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Fill returns the particle colour with its own opacity applied.
func (p *Particle) Fill() surface.Color {
	return p.Color.WithAlpha(p.Color.A * p.Opacity)
}

// repel pushes the particle away from the pointer at (px, py).
func (p *Particle) repel(px, py, radius, strength float64) {
	dx := px - p.X
	dy := py - p.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	force := RepelForce(dist, radius, strength)
	if force == 0 {
		return
	}
	p.VX -= dx / dist * force
	p.VY -= dy / dist * force
}

// move integrates the position and bounces off the {0, 0, w, h} walls.
func (p *Particle) move(w, h, damping float64) {
	p.X += p.VX
	p.Y += p.VY

	if p.X < 0 || p.X > w {
		p.VX = -p.VX
	}
	if p.Y < 0 || p.Y > h {
		p.VY = -p.VY
	}
	p.X = math.Max(0, math.Min(w, p.X))
	p.Y = math.Max(0, math.Min(h, p.Y))

	p.VX *= damping
	p.VY *= damping
}

// RepelForce returns the impulse magnitude applied at distance dist from the
// pointer. It is zero outside radius and at dist == 0, where no direction
// exists.
func RepelForce(dist, radius, strength float64) float64 {
	if dist <= 0 || dist >= radius || math.IsNaN(dist) {
		return 0
	}
	return (radius - dist) / radius * strength
}

// LinkOpacity returns the opacity of the line joining two particles dist
// apart: maxOpacity at 0, falling linearly to 0 at maxDist.
func LinkOpacity(dist, maxDist, maxOpacity float64) float64 {
	if dist >= maxDist {
		return 0
	}
	if dist < 0 {
		dist = 0
	}
	return (1 - dist/maxDist) * maxOpacity
}
