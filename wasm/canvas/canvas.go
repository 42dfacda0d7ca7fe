//go:build js && wasm

// Package canvas runs the engines in the browser on HTML canvas elements,
// with DOM events as input and requestAnimationFrame as the frame clock.
package canvas

import (
	"fmt"
	"math"
	"syscall/js"

	"github.com/esimov/ascii-cloud/surface"
)

// Canvas wraps an HTMLCanvasElement.
type Canvas struct {
	el js.Value
}

// New looks the canvas up by element id.
func New(id string) (*Canvas, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("canvas #%s not found", id)
	}
	return &Canvas{el: el}, nil
}

// Element returns the underlying DOM element.
func (c *Canvas) Element() js.Value {
	return c.el
}

// Fit matches the drawing buffer to the element's CSS size.
func (c *Canvas) Fit() {
	c.el.Set("width", c.el.Get("clientWidth"))
	c.el.Set("height", c.el.Get("clientHeight"))
}

// Context implements surface.Canvas. Browsers return null for a 2d context
// on a canvas already bound to another context type.
func (c *Canvas) Context() (surface.Context, error) {
	ctx := c.el.Call("getContext", "2d")
	if ctx.IsNull() || ctx.IsUndefined() {
		return nil, surface.ErrNoContext
	}
	return &context{canvas: c, ctx: ctx}, nil
}

// Bounds implements surface.Canvas in viewport coordinates.
func (c *Canvas) Bounds() surface.Rect {
	r := c.el.Call("getBoundingClientRect")
	return surface.Rect{
		X: r.Get("left").Float(),
		Y: r.Get("top").Float(),
		W: r.Get("width").Float(),
		H: r.Get("height").Float(),
	}
}

type context struct {
	canvas *Canvas
	ctx    js.Value
}

func (c *context) Size() (float64, float64) {
	return c.canvas.el.Get("width").Float(), c.canvas.el.Get("height").Float()
}

func (c *context) Clear() {
	w, h := c.Size()
	c.ctx.Call("clearRect", 0, 0, w, h)
}

func (c *context) FillCircle(x, y, r float64, fill surface.Color) {
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", x, y, r, 0, 2*math.Pi)
	c.ctx.Set("fillStyle", fill.String())
	c.ctx.Call("fill")
}

func (c *context) StrokeLine(x0, y0, x1, y1, width float64, stroke surface.Color) {
	c.ctx.Call("beginPath")
	c.ctx.Call("moveTo", x0, y0)
	c.ctx.Call("lineTo", x1, y1)
	c.ctx.Set("strokeStyle", stroke.String())
	c.ctx.Set("lineWidth", width)
	c.ctx.Call("stroke")
}

func (c *context) FillText(text string, x, y float64, font surface.Font, fill surface.Color, shadow surface.Shadow) {
	c.ctx.Set("font", fmt.Sprintf("%gpx %s", font.Size, font.Family))
	c.ctx.Set("textAlign", "center")
	c.ctx.Set("textBaseline", "middle")
	c.ctx.Set("fillStyle", fill.String())
	if shadow.Blur > 0 {
		c.ctx.Set("shadowColor", shadow.Color.String())
		c.ctx.Set("shadowBlur", shadow.Blur)
	}
	c.ctx.Call("fillText", text, x, y)
	c.ctx.Set("shadowBlur", 0)
}
