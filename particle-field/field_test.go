package field

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/input"
	"github.com/esimov/ascii-cloud/surface"
)

// seqSampler replays a fixed sequence of values in [0, 1).
type seqSampler struct {
	vals []float64
	i    int
}

func (s *seqSampler) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func (s *seqSampler) IntN(n int) int {
	return int(s.Float64() * float64(n))
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newField(t *testing.T, w, h float64, rng Sampler) (*Field, *surface.Recorder) {
	t.Helper()
	rec := surface.NewRecorder(surface.Rect{W: w, H: h})
	f := New(rec, DefaultConfig(), rng)
	f.Init(w, h)
	return f, rec
}

func TestInitRanges(t *testing.T) {
	f, _ := newField(t, 800, 600, newRand(1))
	cfg := DefaultConfig()

	ps := f.Particles()
	if len(ps) != 80 {
		t.Fatalf("population = %d, want 80", len(ps))
	}
	for i, p := range ps {
		if p.X < 0 || p.X > 800 || p.Y < 0 || p.Y > 600 {
			t.Errorf("particle %d at (%v, %v) out of bounds", i, p.X, p.Y)
		}
		if math.Abs(p.VX) > 0.25 || math.Abs(p.VY) > 0.25 {
			t.Errorf("particle %d velocity (%v, %v) outside [-0.25, 0.25]", i, p.VX, p.VY)
		}
		if p.Radius < 1 || p.Radius > 3 {
			t.Errorf("particle %d radius %v outside [1, 3]", i, p.Radius)
		}
		if p.Opacity < 0.2 || p.Opacity > 0.7 {
			t.Errorf("particle %d opacity %v outside [0.2, 0.7]", i, p.Opacity)
		}
		found := false
		for _, c := range cfg.Palette {
			if c == p.Color {
				found = true
			}
		}
		if !found {
			t.Errorf("particle %d colour %v not in palette", i, p.Color)
		}
	}
}

func TestParticlesStayInBounds(t *testing.T) {
	f, _ := newField(t, 320, 240, newRand(7))
	rng := newRand(99)

	for step := 0; step < 2000; step++ {
		if step%10 == 0 {
			f.SetPointer(rng.Float64()*320, rng.Float64()*240)
		}
		f.Step()
		for i, p := range f.Particles() {
			if p.X < 0 || p.X > 320 || p.Y < 0 || p.Y > 240 {
				t.Fatalf("step %d: particle %d escaped to (%v, %v)", step, i, p.X, p.Y)
			}
		}
	}
}

func TestStepWithoutPointerOnlyDamps(t *testing.T) {
	f, _ := newField(t, 800, 600, newRand(3))
	before := f.Particles()

	f.Step()

	for i, p := range f.Particles() {
		limit := before[i].Speed()*0.99 + 1e-12
		if p.Speed() > limit {
			t.Errorf("particle %d speed %v > %v", i, p.Speed(), limit)
		}
	}
}

func TestRepulsionPushesAway(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	rec := surface.NewRecorder(surface.Rect{W: 100, H: 100})
	f := New(rec, cfg, &seqSampler{vals: []float64{0.5}})
	f.Init(100, 100)

	p := f.Particles()[0]
	if p.X != 50 || p.Y != 50 || p.VX != 0 || p.VY != 0 {
		t.Fatalf("seeded particle = %+v", p)
	}

	f.SetPointer(60, 50)
	f.Step()
	p = f.Particles()[0]

	force := RepelForce(10, 150, 0.02)
	if want := -force * 0.99; math.Abs(p.VX-want) > 1e-12 {
		t.Errorf("VX = %v, want %v", p.VX, want)
	}
	if p.VY != 0 {
		t.Errorf("VY = %v, want 0", p.VY)
	}
	if p.X >= 50 {
		t.Errorf("X = %v, particle should move away from the pointer", p.X)
	}
}

func TestPointerOnParticleIsNoForce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	f := New(surface.NewRecorder(surface.Rect{W: 100, H: 100}), cfg, &seqSampler{vals: []float64{0.5}})
	f.Init(100, 100)

	f.SetPointer(50, 50)
	f.Step()
	p := f.Particles()[0]
	if math.IsNaN(p.VX) || math.IsNaN(p.VY) || p.VX != 0 || p.VY != 0 {
		t.Errorf("velocity = (%v, %v), want (0, 0)", p.VX, p.VY)
	}
}

func TestRepelForce(t *testing.T) {
	if got := RepelForce(0, 150, 0.02); got != 0 {
		t.Errorf("RepelForce(0) = %v, want 0", got)
	}
	if got := RepelForce(150, 150, 0.02); got != 0 {
		t.Errorf("RepelForce(150) = %v, want 0", got)
	}
	if got := RepelForce(400, 150, 0.02); got != 0 {
		t.Errorf("RepelForce(400) = %v, want 0", got)
	}

	prev := 0.0
	for d := 149.5; d > 0; d -= 0.5 {
		f := RepelForce(d, 150, 0.02)
		if math.IsNaN(f) || math.IsInf(f, 0) || f > 0.02 {
			t.Fatalf("RepelForce(%v) = %v", d, f)
		}
		if f <= prev {
			t.Fatalf("RepelForce(%v) = %v not increasing (prev %v)", d, f, prev)
		}
		prev = f
	}
}

func TestLinkOpacity(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"touching", 0, 0.15},
		{"half way", 60, 0.075},
		{"at limit", 120, 0},
		{"beyond", 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinkOpacity(tt.dist, 120, 0.15); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("LinkOpacity(%v) = %v, want %v", tt.dist, got, tt.want)
			}
		})
	}

	prev := math.Inf(1)
	for d := 0.0; d <= 130; d++ {
		o := LinkOpacity(d, 120, 0.15)
		if o < 0 || o > prev {
			t.Fatalf("LinkOpacity(%v) = %v, prev %v", d, o, prev)
		}
		prev = o
	}
}

func TestFrameDrawsParticlesAndLinks(t *testing.T) {
	f, rec := newField(t, 400, 300, newRand(11))
	f.Frame(time.Now())

	ps := f.Particles()
	wantLinks := 0
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if math.Hypot(ps[i].X-ps[j].X, ps[i].Y-ps[j].Y) < 120 {
				wantLinks++
			}
		}
	}

	var circles, lines int
	for _, op := range rec.Ops() {
		switch op.Kind {
		case surface.OpCircle:
			circles++
		case surface.OpLine:
			lines++
			if op.Color.A > 0.15 || op.Width != 0.5 {
				t.Errorf("link %+v exceeds opacity or width", op)
			}
		}
	}
	if circles != 80 {
		t.Errorf("drew %d discs, want 80", circles)
	}
	if lines != wantLinks {
		t.Errorf("drew %d links, want %d", lines, wantLinks)
	}
}

func TestFrameSkippedWithoutContext(t *testing.T) {
	f, rec := newField(t, 400, 300, newRand(5))
	before := f.Particles()

	rec.Detach()
	f.Frame(time.Now())
	if !reflect.DeepEqual(before, f.Particles()) {
		t.Error("frame without context must not advance the simulation")
	}
	if rec.Frames() != 0 {
		t.Error("frame without context must not clear the surface")
	}

	rec.Attach()
	f.Frame(time.Now())
	if rec.Frames() != 1 {
		t.Errorf("Frames() = %d after reattach, want 1", rec.Frames())
	}
}

func TestMountTeardown(t *testing.T) {
	rec := surface.NewRecorder(surface.Rect{W: 640, H: 480})
	f := New(rec, DefaultConfig(), newRand(2))
	hub := input.NewHub()
	loop := frame.NewLoop(60)

	f.Mount(hub, loop)
	if !f.Mounted() || hub.Len() != 1 || loop.Pending() != 1 {
		t.Fatalf("mounted=%v subscribers=%d pending=%d", f.Mounted(), hub.Len(), loop.Pending())
	}

	hub.Publish(input.Event{Kind: input.Move, X: 10, Y: 20})
	if p := f.Pointer(); p.X != 10 || p.Y != 20 {
		t.Errorf("pointer = %+v, want {10 20}", p)
	}
	hub.Publish(input.Event{Kind: input.Leave})
	if p := f.Pointer(); p.X != Offscreen || p.Y != Offscreen {
		t.Errorf("pointer after leave = %+v", p)
	}

	for i := 0; i < 3; i++ {
		loop.Step(time.Now())
	}
	if rec.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", rec.Frames())
	}

	rec.SetBounds(surface.Rect{W: 200, H: 100})
	hub.Publish(input.Event{Kind: input.Resize, Width: 200, Height: 100})
	if w, h := f.Size(); w != 200 || h != 100 {
		t.Errorf("Size() after resize = %vx%v", w, h)
	}
	for _, p := range f.Particles() {
		if p.X > 200 || p.Y > 100 {
			t.Fatalf("particle %+v outside resized bounds", p)
		}
	}

	f.Teardown()
	if f.Mounted() || hub.Len() != 0 || loop.Pending() != 0 {
		t.Errorf("after teardown mounted=%v subscribers=%d pending=%d", f.Mounted(), hub.Len(), loop.Pending())
	}
	loop.Step(time.Now())
	if rec.Frames() != 3 {
		t.Error("frame ran after teardown")
	}
}

func TestReinitIsReproducible(t *testing.T) {
	a, _ := newField(t, 800, 600, newRand(42))
	b, _ := newField(t, 800, 600, newRand(42))
	if !reflect.DeepEqual(a.Particles(), b.Particles()) {
		t.Error("same seed and size must produce the same population")
	}

	c, _ := newField(t, 800, 600, newRand(43))
	if len(c.Particles()) != len(a.Particles()) {
		t.Error("population size must not depend on the seed")
	}
}
