package surface

import "sync"

// OpKind names a recorded drawing primitive.
type OpKind string

const (
	OpCircle OpKind = "circle"
	OpLine   OpKind = "line"
	OpText   OpKind = "text"
)

// Op is one recorded drawing call. Only the fields relevant to its kind are set.
type Op struct {
	Kind   OpKind  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	X1     float64 `json:"x1,omitempty"`
	Y1     float64 `json:"y1,omitempty"`
	R      float64 `json:"r,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Color  Color   `json:"color"`
	Text   string  `json:"text,omitempty"`
	Font   string  `json:"font,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Glow   *Color  `json:"glow,omitempty"`
	Blur   float64 `json:"blur,omitempty"`
}

// Recorder is a headless Canvas that records the drawing calls of the
// current frame. Clear starts a new frame. It is used to stream frames to
// remote renderers and to observe engines in tests.
type Recorder struct {
	mu       sync.Mutex
	bounds   Rect
	ops      []Op
	detached bool
	frames   int
}

// NewRecorder creates a recorder placed at bounds.
func NewRecorder(bounds Rect) *Recorder {
	return &Recorder{bounds: bounds}
}

// Context implements Canvas.
func (r *Recorder) Context() (Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.detached || r.bounds.Empty() {
		return nil, ErrNoContext
	}
	return r, nil
}

// Bounds implements Canvas.
func (r *Recorder) Bounds() Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds
}

// SetBounds moves or resizes the surface.
func (r *Recorder) SetBounds(b Rect) {
	r.mu.Lock()
	r.bounds = b
	r.mu.Unlock()
}

// Detach makes Context fail until Attach is called.
func (r *Recorder) Detach() {
	r.mu.Lock()
	r.detached = true
	r.mu.Unlock()
}

// Attach undoes Detach.
func (r *Recorder) Attach() {
	r.mu.Lock()
	r.detached = false
	r.mu.Unlock()
}

// Ops returns a copy of the calls recorded since the last Clear.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Frames returns how many times Clear has been called.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Size implements Context.
func (r *Recorder) Size() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds.W, r.bounds.H
}

// Clear implements Context.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.ops = r.ops[:0]
	r.frames++
	r.mu.Unlock()
}

// FillCircle implements Context.
func (r *Recorder) FillCircle(x, y, radius float64, fill Color) {
	r.record(Op{Kind: OpCircle, X: x, Y: y, R: radius, Color: fill})
}

// StrokeLine implements Context.
func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, stroke Color) {
	r.record(Op{Kind: OpLine, X: x0, Y: y0, X1: x1, Y1: y1, Width: width, Color: stroke})
}

// FillText implements Context.
func (r *Recorder) FillText(text string, x, y float64, font Font, fill Color, shadow Shadow) {
	op := Op{Kind: OpText, X: x, Y: y, Text: text, Font: font.Family, Size: font.Size, Color: fill}
	if shadow.Blur > 0 {
		glow := shadow.Color
		op.Glow = &glow
		op.Blur = shadow.Blur
	}
	r.record(op)
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}
