// Package field implements the particle field: drifting particles pushed
// away by the pointer and joined by faint lines when close to each other.
package field

import (
	"math"
	"time"

	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/input"
	"github.com/esimov/ascii-cloud/surface"
)

// Offscreen is the pointer position used while no pointer is over the field.
const Offscreen = -1000

// Sampler is the randomness source used to seed the particles.
// *math/rand/v2.Rand satisfies it.
type Sampler interface {
	Float64() float64
	IntN(n int) int
}

// Config holds the field tunables.
type Config struct {
	Count         int
	MaxSpeed      float64 // initial velocity is uniform in [-MaxSpeed, MaxSpeed]
	MinRadius     float64
	MaxRadius     float64
	MinOpacity    float64
	MaxOpacity    float64
	RepelRadius   float64
	RepelStrength float64
	Damping       float64
	LinkDistance  float64
	LinkOpacity   float64
	LinkWidth     float64
	LinkColor     surface.Color
	Palette       []surface.Color
}

// DefaultConfig returns the stock field settings.
func DefaultConfig() Config {
	return Config{
		Count:         80,
		MaxSpeed:      0.25,
		MinRadius:     1,
		MaxRadius:     3,
		MinOpacity:    0.2,
		MaxOpacity:    0.7,
		RepelRadius:   150,
		RepelStrength: 0.02,
		Damping:       0.99,
		LinkDistance:  120,
		LinkOpacity:   0.15,
		LinkWidth:     0.5,
		LinkColor:     surface.RGBA(139, 92, 246, 1),
		Palette: []surface.Color{
			surface.RGBA(139, 92, 246, 0.6),
			surface.RGBA(6, 182, 212, 0.6),
			surface.RGBA(168, 85, 247, 0.4),
		},
	}
}

// Field owns a particle population and animates it on a canvas.
type Field struct {
	cfg    Config
	rng    Sampler
	canvas surface.Canvas

	particles []Particle
	width     float64
	height    float64
	pointer   *input.Slot

	anim        *frame.Animation
	unsubscribe func()
}

// New creates a field drawing on canvas. The population is created by Init
// or, when mounted, from the canvas bounds.
func New(canvas surface.Canvas, cfg Config, rng Sampler) *Field {
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultConfig().Palette
	}
	return &Field{
		cfg:     cfg,
		rng:     rng,
		canvas:  canvas,
		pointer: input.NewSlot(Offscreen, Offscreen),
	}
}

// Init discards the current population and seeds a new one inside a
// width x height area.
func (f *Field) Init(width, height float64) {
	f.width, f.height = width, height
	f.particles = make([]Particle, f.cfg.Count)

	for i := range f.particles {
		p := NewParticle(f.rng.Float64()*width, f.rng.Float64()*height)
		p.VX = (f.rng.Float64()*2 - 1) * f.cfg.MaxSpeed
		p.VY = (f.rng.Float64()*2 - 1) * f.cfg.MaxSpeed
		p.Radius = f.cfg.MinRadius + f.rng.Float64()*(f.cfg.MaxRadius-f.cfg.MinRadius)
		p.Opacity = f.cfg.MinOpacity + f.rng.Float64()*(f.cfg.MaxOpacity-f.cfg.MinOpacity)
		p.Color = f.cfg.Palette[f.rng.IntN(len(f.cfg.Palette))]
		f.particles[i] = *p
	}
}

// Particles returns a snapshot of the population.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// Size returns the area the particles are confined to.
func (f *Field) Size() (float64, float64) {
	return f.width, f.height
}

// SetPointer records the pointer position in field coordinates.
func (f *Field) SetPointer(x, y float64) {
	f.pointer.Store(x, y)
}

// Pointer returns the last recorded pointer position.
func (f *Field) Pointer() input.Point {
	return f.pointer.Load()
}

// Step advances the simulation by one frame without drawing.
func (f *Field) Step() {
	ptr := f.pointer.Load()
	for i := range f.particles {
		p := &f.particles[i]
		p.repel(ptr.X, ptr.Y, f.cfg.RepelRadius, f.cfg.RepelStrength)
		p.move(f.width, f.height, f.cfg.Damping)
	}
}

// Draw renders the particles followed by the links between close pairs.
func (f *Field) Draw(ctx surface.Context) {
	for i := range f.particles {
		p := &f.particles[i]
		ctx.FillCircle(p.X, p.Y, p.Radius, p.Fill())
	}

	for i := range f.particles {
		a := &f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := &f.particles[j]
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			if dist >= f.cfg.LinkDistance {
				continue
			}
			alpha := LinkOpacity(dist, f.cfg.LinkDistance, f.cfg.LinkOpacity)
			ctx.StrokeLine(a.X, a.Y, b.X, b.Y, f.cfg.LinkWidth, f.cfg.LinkColor.WithAlpha(alpha))
		}
	}
}

// Frame is the per-frame callback: it skips silently while the canvas has
// no context and is retried on the next frame.
func (f *Field) Frame(time.Time) {
	ctx, err := f.canvas.Context()
	if err != nil {
		return
	}
	ctx.Clear()
	f.Step()
	f.Draw(ctx)
}

// HandleEvent applies an input event to the field.
func (f *Field) HandleEvent(ev input.Event) {
	switch ev.Kind {
	case input.Move:
		b := f.canvas.Bounds()
		f.SetPointer(ev.X-b.X, ev.Y-b.Y)
	case input.Leave:
		f.SetPointer(Offscreen, Offscreen)
	case input.Resize:
		b := f.canvas.Bounds()
		f.Init(b.W, b.H)
	}
}

// Mount seeds the population from the canvas bounds, subscribes to src and
// starts animating on s. Teardown undoes all of it.
func (f *Field) Mount(src input.Source, s frame.Scheduler) {
	f.Teardown()

	b := f.canvas.Bounds()
	f.Init(b.W, b.H)
	f.unsubscribe = src.Subscribe(f.HandleEvent)
	f.anim = frame.Start(s, f.Frame)
}

// Teardown cancels the pending frame and releases the input subscription.
func (f *Field) Teardown() {
	if f.anim != nil {
		f.anim.Stop()
		f.anim = nil
	}
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	f.pointer.Store(Offscreen, Offscreen)
}

// Mounted reports whether the field is animating.
func (f *Field) Mounted() bool {
	return f.anim != nil && f.anim.Running()
}
