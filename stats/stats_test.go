package stats

import (
	"testing"
	"time"

	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/surface"
)

func TestCounterSteps(t *testing.T) {
	c := NewCounter(Stat{Label: "GitHub Commits", Value: 2847, Suffix: "+"})
	if c.Current() != 0 || c.String() != "0+" {
		t.Fatalf("initial = %d %q", c.Current(), c.String())
	}

	c.Advance(1)
	if got := c.Current(); got != 47 {
		t.Errorf("after one step = %d, want 47", got)
	}

	c.Advance(29)
	if got := c.Current(); got != 1423 {
		t.Errorf("half way = %d, want 1423", got)
	}
	if got := c.String(); got != "1,423+" {
		t.Errorf("String() = %q, want 1,423+", got)
	}

	c.Advance(100)
	if !c.Done() || c.Current() != 2847 {
		t.Errorf("final = %d done=%v", c.Current(), c.Done())
	}
	if got := c.String(); got != "2,847+" {
		t.Errorf("String() = %q, want 2,847+", got)
	}
}

func TestCounterSmallValue(t *testing.T) {
	c := NewCounter(Stat{Label: "Years Coding", Value: 5, Suffix: "+"})
	prev := 0
	for i := 0; i < Steps; i++ {
		c.Advance(1)
		if c.Current() < prev {
			t.Fatalf("counter went backwards at step %d", i)
		}
		prev = c.Current()
	}
	if c.Current() != 5 {
		t.Errorf("final = %d, want 5", c.Current())
	}
}

func TestBoardTicksOnSchedule(t *testing.T) {
	loop := frame.NewLoop(60)
	b := NewBoard(DefaultStats)
	b.Start(loop)
	b.Start(loop)
	if loop.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", loop.Pending())
	}

	start := time.Unix(0, 0)
	loop.Step(start)
	if b.Counters[0].Current() != 0 {
		t.Errorf("first tick should show zero, got %d", b.Counters[0].Current())
	}

	loop.Step(start.Add(Duration / 2))
	if got := b.Counters[0].Current(); got != 1423 {
		t.Errorf("half way = %d, want 1423", got)
	}

	loop.Step(start.Add(Duration))
	if !b.Done() {
		t.Error("board should be done after Duration")
	}
	if loop.Pending() != 0 {
		t.Errorf("finished board left %d pending frames", loop.Pending())
	}
}

func TestBoardDraw(t *testing.T) {
	rec := surface.NewRecorder(surface.Rect{W: 400, H: 30})
	b := NewBoard(DefaultStats)
	b.Draw(rec)

	ops := rec.Ops()
	if len(ops) != 2*len(DefaultStats) {
		t.Fatalf("drew %d ops, want %d", len(ops), 2*len(DefaultStats))
	}
	if ops[0].Text != "0+" || ops[1].Text != "GitHub Commits" || ops[0].X != 50 {
		t.Errorf("first column = %+v %+v", ops[0], ops[1])
	}
}

func TestBoardPaint(t *testing.T) {
	rec := surface.NewRecorder(surface.Rect{W: 800, H: 40})
	b := NewBoard(DefaultStats)
	paint := b.Paint(rec)

	paint(time.Now())
	if rec.Frames() != 1 || len(rec.Ops()) != 2*len(DefaultStats) {
		t.Fatalf("frames = %d, ops = %d", rec.Frames(), len(rec.Ops()))
	}

	rec.Detach()
	paint(time.Now())
	if rec.Frames() != 1 {
		t.Errorf("detached canvas was cleared")
	}
}
