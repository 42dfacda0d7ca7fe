package surface

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoContext is returned by a Canvas whose drawing context is not available
// yet (not mounted, zero sized or unsupported by the host).
var ErrNoContext = errors.New("surface: drawing context unavailable")

// Color is an 8-bit RGB colour with a floating point alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGBA builds a colour from its channels.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: clamp01(a)}
}

// WithAlpha returns the colour with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// String formats the colour the way a CSS canvas fillStyle expects it.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// MarshalText encodes the colour in its CSS form.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Font describes the text size and family used by FillText.
type Font struct {
	Size   float64
	Family string
}

func (f Font) String() string {
	return fmt.Sprintf("%gpx %q", f.Size, f.Family)
}

// Shadow is the glow drawn behind text. A zero Blur disables it.
type Shadow struct {
	Color Color
	Blur  float64
}

// Rect is an axis aligned rectangle in pointer (pixel) space.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the rectangle centre.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Context holds the drawing primitives an engine needs for one frame.
// Coordinates are relative to the surface origin.
type Context interface {
	Size() (w, h float64)
	Clear()
	FillCircle(x, y, r float64, fill Color)
	StrokeLine(x0, y0, x1, y1, width float64, stroke Color)
	FillText(text string, x, y float64, font Font, fill Color, shadow Shadow)
}

// Canvas is a drawing target owned by a single engine.
type Canvas interface {
	// Context returns the drawing context or ErrNoContext.
	Context() (Context, error)
	// Bounds is the surface placement in the coordinate space of the
	// pointer events delivered to the engine.
	Bounds() Rect
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
