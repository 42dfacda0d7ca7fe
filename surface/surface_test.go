package surface

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestColorString(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want string
	}{
		{"opaque", RGBA(255, 255, 255, 1), "rgba(255, 255, 255, 1)"},
		{"palette", RGBA(139, 92, 246, 0.6), "rgba(139, 92, 246, 0.6)"},
		{"clamped high", RGBA(1, 2, 3, 4), "rgba(1, 2, 3, 1)"},
		{"clamped low", RGBA(1, 2, 3, -1), "rgba(1, 2, 3, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	if !r.Contains(10, 20) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(110, 20) {
		t.Error("right edge is exclusive")
	}
	cx, cy := r.Center()
	if cx != 60 || cy != 45 {
		t.Errorf("Center() = (%v, %v), want (60, 45)", cx, cy)
	}
}

func TestRecorderLifecycle(t *testing.T) {
	rec := NewRecorder(Rect{W: 200, H: 100})

	ctx, err := rec.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}
	ctx.Clear()
	ctx.FillCircle(1, 2, 3, RGBA(1, 1, 1, 1))
	ctx.StrokeLine(0, 0, 10, 10, 0.5, RGBA(2, 2, 2, 0.1))
	ctx.FillText("Go", 5, 5, Font{Size: 20, Family: "mono"}, RGBA(255, 255, 255, 1), Shadow{})

	ops := rec.Ops()
	if len(ops) != 3 {
		t.Fatalf("recorded %d ops, want 3", len(ops))
	}
	if ops[2].Glow != nil {
		t.Error("text without blur must not record a glow")
	}

	ctx.Clear()
	if n := len(rec.Ops()); n != 0 {
		t.Errorf("Clear left %d ops", n)
	}
	if rec.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", rec.Frames())
	}

	rec.Detach()
	if _, err := rec.Context(); !errors.Is(err, ErrNoContext) {
		t.Errorf("detached Context() error = %v, want ErrNoContext", err)
	}
	rec.Attach()
	rec.SetBounds(Rect{})
	if _, err := rec.Context(); !errors.Is(err, ErrNoContext) {
		t.Errorf("empty bounds Context() error = %v, want ErrNoContext", err)
	}
}

func TestOpJSON(t *testing.T) {
	rec := NewRecorder(Rect{W: 10, H: 10})
	rec.FillText("Redis", 1, 1, Font{Size: 26, Family: "Space Grotesk"}, RGBA(255, 255, 255, 1),
		Shadow{Color: RGBA(255, 255, 255, 0.5), Blur: 10})

	b, err := json.Marshal(rec.Ops())
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"kind":"text"`, `"glow":"rgba(255, 255, 255, 0.5)"`, `"blur":10`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded op %s missing %s", s, want)
		}
	}
}
