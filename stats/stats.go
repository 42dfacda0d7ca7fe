// Package stats animates the live statistic counters shown next to the
// label cloud.
package stats

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/surface"
)

const (
	// Duration is how long a counter takes to reach its value.
	Duration = 2 * time.Second
	// Steps is the number of increments a counter makes.
	Steps = 60
)

var printer = message.NewPrinter(language.English)

// Stat is a labelled number.
type Stat struct {
	Label  string
	Value  int
	Suffix string
}

// DefaultStats is the stock set of live stats.
var DefaultStats = []Stat{
	{Label: "GitHub Commits", Value: 2847, Suffix: "+"},
	{Label: "Lines of Code", Value: 500, Suffix: "K+"},
	{Label: "Cups of Coffee", Value: 3421},
	{Label: "Years Coding", Value: 5, Suffix: "+"},
}

// Counter counts up to a stat value in Steps equal increments.
type Counter struct {
	Stat
	step int
}

// NewCounter creates a counter at zero.
func NewCounter(s Stat) *Counter {
	return &Counter{Stat: s}
}

// Advance performs n increments.
func (c *Counter) Advance(n int) {
	c.step = min(c.step+n, Steps)
}

// Done reports whether the counter shows its final value.
func (c *Counter) Done() bool {
	return c.step >= Steps
}

// Current returns the displayed value: floored while counting, exact once
// the increments add up to the value.
func (c *Counter) Current() int {
	increment := float64(c.Value) / Steps
	current := increment * float64(c.step)
	if c.Done() || current >= float64(c.Value) {
		return c.Value
	}
	return int(math.Floor(current))
}

// String formats the current value with thousands separators and suffix.
func (c *Counter) String() string {
	return printer.Sprintf("%d", c.Current()) + c.Suffix
}

// Board drives a set of counters from frame callbacks.
type Board struct {
	Counters []*Counter

	start time.Time
	anim  *frame.Animation
	font  surface.Font
	color surface.Color
	muted surface.Color
}

// NewBoard creates counters for stats.
func NewBoard(stats []Stat) *Board {
	b := &Board{
		font:  surface.Font{Size: 14, Family: "Space Grotesk"},
		color: surface.RGBA(255, 255, 255, 1),
		muted: surface.RGBA(255, 255, 255, 0.5),
	}
	for _, s := range stats {
		b.Counters = append(b.Counters, NewCounter(s))
	}
	return b
}

// Start begins counting on s. Calling it again has no effect.
func (b *Board) Start(s frame.Scheduler) {
	if b.anim != nil {
		return
	}
	b.anim = frame.Start(s, b.Tick)
}

// Stop cancels the pending frame request.
func (b *Board) Stop() {
	if b.anim != nil {
		b.anim.Stop()
	}
}

// Tick moves every counter to the step matching the time elapsed since the
// first tick and stops once all are done.
func (b *Board) Tick(now time.Time) {
	if b.start.IsZero() {
		b.start = now
	}
	target := int(now.Sub(b.start) * Steps / Duration)

	done := true
	for _, c := range b.Counters {
		if c.step < target {
			c.Advance(target - c.step)
		}
		done = done && c.Done()
	}
	if done {
		b.Stop()
	}
}

// Done reports whether all counters reached their values.
func (b *Board) Done() bool {
	for _, c := range b.Counters {
		if !c.Done() {
			return false
		}
	}
	return true
}

// Draw lays the counters out in equal columns on one row.
func (b *Board) Draw(ctx surface.Context) {
	w, h := ctx.Size()
	if len(b.Counters) == 0 {
		return
	}
	col := w / float64(len(b.Counters))
	for i, c := range b.Counters {
		x := col*float64(i) + col/2
		ctx.FillText(c.String(), x, h/3, b.font, b.color, surface.Shadow{})
		ctx.FillText(c.Label, x, h*2/3, b.font, b.muted, surface.Shadow{})
	}
}

// Paint returns a frame callback that redraws the board on canvas, skipping
// frames while the canvas has no context.
func (b *Board) Paint(canvas surface.Canvas) frame.Callback {
	return func(time.Time) {
		ctx, err := canvas.Context()
		if err != nil {
			return
		}
		ctx.Clear()
		b.Draw(ctx)
	}
}
