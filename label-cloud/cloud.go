// Package cloud implements the rotating label cloud: labels spread over a
// sphere that eases toward the pointer, drawn back to front with depth cues.
package cloud

import (
	"math"
	"sort"
	"time"

	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/input"
	"github.com/esimov/ascii-cloud/surface"
)

// DefaultLabels is the stock skill list.
var DefaultLabels = []string{
	"React", "TypeScript", "Node.js", "Python", "AWS", "Docker",
	"GraphQL", "PostgreSQL", "Next.js", "Tailwind", "Framer",
	"Git", "Redis", "Mongo", "Prisma", "Vite", "Three.js",
}

// Config holds the cloud tunables.
type Config struct {
	Labels        []string
	RadiusFactor  float64 // sphere radius as a fraction of min(width, height)
	Sensitivity   float64 // radians per pixel of pointer offset
	Easing        float64 // fraction of the remaining angle covered per frame
	BaseSpeed     float64 // radians added to the applied angle every frame
	FontSize      float64
	FontBase      float64
	FontFamily    string
	GlowThreshold float64
	GlowBlur      float64
	TextColor     surface.Color
	GlowColor     surface.Color

	// Stable keeps the initial placement and one accumulated rotation
	// instead of rotating the stored points in place.
	Stable bool
}

// DefaultConfig returns the stock cloud settings.
func DefaultConfig() Config {
	return Config{
		Labels:        DefaultLabels,
		RadiusFactor:  1.0 / 3,
		Sensitivity:   0.0001,
		Easing:        0.05,
		BaseSpeed:     0.002,
		FontSize:      14,
		FontBase:      12,
		FontFamily:    "Space Grotesk",
		GlowThreshold: 0.8,
		GlowBlur:      10,
		TextColor:     surface.RGBA(255, 255, 255, 1),
		GlowColor:     surface.RGBA(255, 255, 255, 0.5),
	}
}

// Orientation is the eased tilt of the cloud.
type Orientation struct {
	X, Y float64
	// AppliedX and AppliedY sum the angles actually rotated by, drift included.
	AppliedX, AppliedY float64
}

// Style is the depth dependent look of a label.
type Style struct {
	Depth   float64
	Scale   float64
	Opacity float64
	Glow    bool
}

// DepthStyle maps z in [-maxRadius, maxRadius] to a label style.
func DepthStyle(z, maxRadius, glowThreshold float64) Style {
	depth := 0.0
	if maxRadius > 0 {
		depth = (z + maxRadius) / (2 * maxRadius)
	}
	depth = math.Max(0, math.Min(1, depth))

	return Style{
		Depth:   depth,
		Scale:   0.5 + 0.5*depth,
		Opacity: 0.3 + 0.7*depth,
		Glow:    depth > glowThreshold,
	}
}

// Cloud owns the labelled point set and animates it on a canvas.
type Cloud struct {
	cfg    Config
	canvas surface.Canvas

	points    []Point
	canonical []Point
	accum     mat3
	radius    float64
	orient    Orientation
	pointer   *input.Slot

	src   input.Source
	sched frame.Scheduler

	revealed    bool
	anim        *frame.Animation
	unsubscribe func()
}

// New creates a cloud drawing on canvas.
func New(canvas surface.Canvas, cfg Config) *Cloud {
	if cfg.Labels == nil {
		cfg.Labels = DefaultLabels
	}
	return &Cloud{
		cfg:     cfg,
		canvas:  canvas,
		accum:   identity(),
		pointer: input.NewSlot(0, 0),
	}
}

// Init places the labels on a sphere of the given radius, discarding any
// accumulated rotation of the points.
func (c *Cloud) Init(radius float64) {
	c.radius = radius
	c.points = Distribute(c.cfg.Labels, radius)
	c.canonical = append(c.canonical[:0], c.points...)
	c.accum = identity()
}

// Radius returns the sphere radius of the current point set.
func (c *Cloud) Radius() float64 {
	return c.radius
}

// Points returns a snapshot of the current (rotated) point set.
func (c *Cloud) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Orientation returns the current tilt state.
func (c *Cloud) Orientation() Orientation {
	return c.orient
}

// SetOffset records the pointer offset from the surface centre.
func (c *Cloud) SetOffset(x, y float64) {
	c.pointer.Store(x, y)
}

// Offset returns the last recorded pointer offset.
func (c *Cloud) Offset() input.Point {
	return c.pointer.Load()
}

// Step eases the orientation toward the pointer target and rotates the
// points by the resulting angle.
func (c *Cloud) Step() {
	off := c.pointer.Load()
	targetX := off.Y * c.cfg.Sensitivity
	targetY := off.X * c.cfg.Sensitivity

	c.orient.X += (targetX - c.orient.X) * c.cfg.Easing
	c.orient.Y += (targetY - c.orient.Y) * c.cfg.Easing

	rx := c.orient.X + c.cfg.BaseSpeed
	ry := c.orient.Y + c.cfg.BaseSpeed
	c.orient.AppliedX += rx
	c.orient.AppliedY += ry

	if c.cfg.Stable {
		c.accum = rotation(rx, ry).mul(c.accum).orthonormalize()
		for i, p := range c.canonical {
			c.points[i] = c.accum.apply(p)
		}
		return
	}

	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	for i, p := range c.points {
		c.points[i] = rotate(p, sx, cx, sy, cy)
	}
}

// DrawOrder returns the points sorted back to front (descending z).
func (c *Cloud) DrawOrder() []Point {
	order := c.Points()
	sort.SliceStable(order, func(i, j int) bool { return order[i].Z > order[j].Z })
	return order
}

// Draw renders the labels in painter's order centred on the surface.
func (c *Cloud) Draw(ctx surface.Context) {
	w, h := ctx.Size()
	cx, cy := w/2, h/2
	maxRadius := math.Min(w, h) * c.cfg.RadiusFactor

	for _, p := range c.DrawOrder() {
		st := DepthStyle(p.Z, maxRadius, c.cfg.GlowThreshold)
		font := surface.Font{
			Size:   math.Floor(c.cfg.FontSize*st.Scale + c.cfg.FontBase),
			Family: c.cfg.FontFamily,
		}
		var shadow surface.Shadow
		if st.Glow {
			shadow = surface.Shadow{Color: c.cfg.GlowColor, Blur: c.cfg.GlowBlur}
		}
		ctx.FillText(p.Label, cx+p.X, cy+p.Y, font, c.cfg.TextColor.WithAlpha(st.Opacity), shadow)
	}
}

// Frame is the per-frame callback: it skips silently while the canvas has
// no context and is retried on the next frame.
func (c *Cloud) Frame(time.Time) {
	ctx, err := c.canvas.Context()
	if err != nil {
		return
	}
	ctx.Clear()
	c.Step()
	c.Draw(ctx)
}

// HandleEvent applies an input event to the cloud. Pointer coordinates are
// in the canvas' parent space; moves outside the canvas count as leaving.
func (c *Cloud) HandleEvent(ev input.Event) {
	switch ev.Kind {
	case input.Move:
		b := c.canvas.Bounds()
		if !b.Contains(ev.X, ev.Y) {
			c.SetOffset(0, 0)
			return
		}
		mx, my := b.Center()
		c.SetOffset(ev.X-mx, ev.Y-my)
	case input.Leave:
		c.SetOffset(0, 0)
	case input.Resize:
		c.resize()
	}
}

func (c *Cloud) resize() {
	b := c.canvas.Bounds()
	c.Init(math.Min(b.W, b.H) * c.cfg.RadiusFactor)
}

// Mount remembers where to subscribe and schedule. Nothing runs until the
// cloud has been revealed.
func (c *Cloud) Mount(src input.Source, s frame.Scheduler) {
	c.src, c.sched = src, s
	if c.revealed {
		c.activate()
	}
}

// Reveal is the one-shot visibility gate: the first call sizes the cloud,
// subscribes to input and starts the frame loop. Later calls do nothing.
func (c *Cloud) Reveal() {
	if c.revealed {
		return
	}
	c.revealed = true
	c.activate()
}

func (c *Cloud) activate() {
	if c.src == nil || c.sched == nil || c.anim != nil {
		return
	}
	c.resize()
	c.unsubscribe = c.src.Subscribe(c.HandleEvent)
	c.anim = frame.Start(c.sched, c.Frame)
}

// Revealed reports whether Reveal has been called.
func (c *Cloud) Revealed() bool {
	return c.revealed
}

// Running reports whether the frame loop is active.
func (c *Cloud) Running() bool {
	return c.anim != nil && c.anim.Running()
}

// Teardown cancels the pending frame and releases the input subscription.
// A torn down cloud can be mounted and revealed again.
func (c *Cloud) Teardown() {
	if c.anim != nil {
		c.anim.Stop()
		c.anim = nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.pointer.Store(0, 0)
	c.orient = Orientation{}
	c.revealed = false
}
