// Package terminal hosts the engines in a terminal through termbox. Every
// engine draws on its own Layer; the Screen composes the layers after each
// frame and turns mouse and resize events into input events.
package terminal

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/input"
	"github.com/esimov/ascii-cloud/surface"
)

// Default cell size in surface pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	ch     rune
	fg     termbox.Attribute
	weight float64
}

// Placement computes a layer rectangle, in cells, for a w x h screen.
type Placement func(w, h int) (x, y, lw, lh int)

// Layer is a cell back buffer implementing surface.Canvas and
// surface.Context. Surface pixels map to cells through the screen cell size.
type Layer struct {
	screen *Screen
	name   string
	place  Placement

	x, y     int
	backbuf  []cell
	bbw, bbh int
}

// Name returns the layer name.
func (l *Layer) Name() string {
	return l.name
}

func (l *Layer) reallocBackBuffer(w, h int) {
	l.x, l.y, l.bbw, l.bbh = 0, 0, 0, 0
	if l.place != nil {
		l.x, l.y, l.bbw, l.bbh = l.place(w, h)
	}
	if l.bbw < 0 {
		l.bbw = 0
	}
	if l.bbh < 0 {
		l.bbh = 0
	}
	l.backbuf = make([]cell, l.bbw*l.bbh)
}

// Context implements surface.Canvas.
func (l *Layer) Context() (surface.Context, error) {
	if !l.screen.ready || l.bbw == 0 || l.bbh == 0 {
		return nil, surface.ErrNoContext
	}
	return l, nil
}

// Bounds implements surface.Canvas.
func (l *Layer) Bounds() surface.Rect {
	return surface.Rect{
		X: float64(l.x) * l.screen.cellW,
		Y: float64(l.y) * l.screen.cellH,
		W: float64(l.bbw) * l.screen.cellW,
		H: float64(l.bbh) * l.screen.cellH,
	}
}

// Size implements surface.Context.
func (l *Layer) Size() (float64, float64) {
	return float64(l.bbw) * l.screen.cellW, float64(l.bbh) * l.screen.cellH
}

// Clear implements surface.Context.
func (l *Layer) Clear() {
	for i := range l.backbuf {
		l.backbuf[i] = cell{}
	}
}

// FillCircle implements surface.Context. Bigger discs get heavier glyphs.
func (l *Layer) FillCircle(x, y, r float64, fill surface.Color) {
	ch := '·'
	switch {
	case r >= 2.4:
		ch = '●'
	case r >= 1.7:
		ch = '•'
	}
	cx, cy := l.toCell(x, y)
	l.put(cx, cy, ch, attribute(fill), 1+luminance(fill), false)
}

// StrokeLine implements surface.Context. Lines never cover a brighter cell.
func (l *Layer) StrokeLine(x0, y0, x1, y1, _ float64, stroke surface.Color) {
	ax, ay := l.toCell(x0, y0)
	bx, by := l.toCell(x1, y1)
	fg := attribute(stroke)
	weight := luminance(stroke)

	dx, dy := abs(bx-ax), -abs(by-ay)
	sx, sy := sign(bx-ax), sign(by-ay)
	e := dx + dy
	for {
		l.put(ax, ay, '·', fg, weight, false)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

// FillText implements surface.Context. Text is centred on (x, y); glowing
// text is drawn bold. Text always covers what was drawn before it.
func (l *Layer) FillText(text string, x, y float64, _ surface.Font, fill surface.Color, shadow surface.Shadow) {
	fg := attribute(fill)
	if shadow.Blur > 0 {
		fg |= termbox.AttrBold
	}
	cx, cy := l.toCell(x, y)
	col := cx - runewidth.StringWidth(text)/2
	for _, r := range text {
		l.put(col, cy, r, fg, 2+luminance(fill), true)
		col += runewidth.RuneWidth(r)
	}
}

func (l *Layer) toCell(x, y float64) (int, int) {
	return int(math.Floor(x / l.screen.cellW)), int(math.Floor(y / l.screen.cellH))
}

func (l *Layer) put(x, y int, ch rune, fg termbox.Attribute, weight float64, force bool) {
	if x < 0 || y < 0 || x >= l.bbw || y >= l.bbh {
		return
	}
	c := &l.backbuf[y*l.bbw+x]
	if !force && c.ch != 0 && c.weight > weight {
		return
	}
	*c = cell{ch: ch, fg: fg, weight: weight}
}

// Screen owns the layers and the termbox session.
type Screen struct {
	cellW, cellH float64
	layers       []*Layer
	w, h         int
	ready        bool
	logger       *slog.Logger
}

// New creates a screen mapping one cell to cellW x cellH surface pixels.
func New(cellW, cellH int, logger *slog.Logger) *Screen {
	if cellW <= 0 {
		cellW = CellWidth
	}
	if cellH <= 0 {
		cellH = CellHeight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen{cellW: float64(cellW), cellH: float64(cellH), logger: logger}
}

// AddLayer stacks a new layer on top of the existing ones.
func (s *Screen) AddLayer(name string, place Placement) *Layer {
	l := &Layer{screen: s, name: name, place: place}
	l.reallocBackBuffer(s.w, s.h)
	s.layers = append(s.layers, l)
	return l
}

// Resize lays the layers out again for a w x h cell screen. Their content
// is discarded.
func (s *Screen) Resize(w, h int) {
	s.w, s.h = w, h
	for _, l := range s.layers {
		l.reallocBackBuffer(w, h)
	}
}

// Size returns the screen size in cells.
func (s *Screen) Size() (int, int) {
	return s.w, s.h
}

// PixelSize returns the screen size in surface pixels.
func (s *Screen) PixelSize() (float64, float64) {
	return float64(s.w) * s.cellW, float64(s.h) * s.cellH
}

// compose flattens the layers, later layers covering earlier ones.
func (s *Screen) compose() []cell {
	out := make([]cell, s.w*s.h)
	for _, l := range s.layers {
		for j := 0; j < l.bbh; j++ {
			for i := 0; i < l.bbw; i++ {
				c := l.backbuf[j*l.bbw+i]
				x, y := l.x+i, l.y+j
				if c.ch == 0 || x < 0 || y < 0 || x >= s.w || y >= s.h {
					continue
				}
				out[y*s.w+x] = c
			}
		}
	}
	return out
}

// Present flushes the composed layers to the terminal.
func (s *Screen) Present() {
	if !s.ready {
		return
	}
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for i, c := range s.compose() {
		if c.ch == 0 {
			continue
		}
		termbox.SetCell(i%s.w, i/s.w, c.ch, c.fg, termbox.ColorDefault)
	}
	if err := termbox.Flush(); err != nil {
		s.logger.Error("flush terminal", "error", err)
	}
}

// Run opens the terminal, feeds mouse and resize events to hub through
// loop, presents every frame and blocks until ctx is done or the user quits
// with Esc, q or Ctrl-C.
func (s *Screen) Run(ctx context.Context, loop *frame.Loop, hub *input.Hub) error {
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.SetOutputMode(termbox.Output256)

	s.Resize(termbox.Size())
	s.ready = true
	defer func() { s.ready = false }()
	loop.AfterFrame(func(time.Time) { s.Present() })

	pw, ph := s.PixelSize()
	loop.Post(func() { hub.Publish(input.Event{Kind: input.Resize, Width: pw, Height: ph}) })

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.poll(cancel, loop, hub)
	}()

	err := loop.Run(ctx)
	termbox.Interrupt()
	wg.Wait()
	return err
}

func (s *Screen) poll(quit func(), loop *frame.Loop, hub *input.Hub) {
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				quit()
				return
			}
		case termbox.EventMouse:
			s.logger.Debug("mouse", "key", ev.Key, "x", ev.MouseX, "y", ev.MouseY)
			if in, ok := s.mouseEvent(ev); ok {
				loop.Post(func() { hub.Publish(in) })
			}
		case termbox.EventResize:
			w, h := ev.Width, ev.Height
			loop.Post(func() {
				s.Resize(w, h)
				pw, ph := s.PixelSize()
				hub.Publish(input.Event{Kind: input.Resize, Width: pw, Height: ph})
			})
		case termbox.EventError:
			s.logger.Error("poll terminal", "error", ev.Err)
			quit()
			return
		case termbox.EventInterrupt:
			return
		}
	}
}

// mouseEvent translates a termbox mouse event. Terminals only report the
// pointer while a button is held, so releasing it counts as leaving.
func (s *Screen) mouseEvent(ev termbox.Event) (input.Event, bool) {
	switch ev.Key {
	case termbox.MouseLeft, termbox.MouseMiddle, termbox.MouseRight:
		x, y := s.cellCenter(ev.MouseX, ev.MouseY)
		return input.Event{Kind: input.Move, X: x, Y: y}, true
	case termbox.MouseRelease:
		return input.Event{Kind: input.Leave}, true
	}
	return input.Event{}, false
}

func (s *Screen) cellCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * s.cellW, (float64(cy) + 0.5) * s.cellH
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
