// Package input carries pointer, resize and visibility events from a host
// surface to the engines drawing on it.
package input

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Kind identifies an input event.
type Kind int

const (
	Move Kind = iota
	Leave
	Resize
	Visible
)

var kindNames = map[Kind]string{
	Move:    "move",
	Leave:   "leave",
	Resize:  "resize",
	Visible: "visible",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a single input notification. X and Y are set for Move, Width and
// Height for Resize.
type Event struct {
	Kind   Kind
	X, Y   float64
	Width  float64
	Height float64
}

type wireEvent struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// MarshalJSON encodes the event in its browser wire form.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: e.Kind.String(), X: e.X, Y: e.Y, Width: e.Width, Height: e.Height})
}

// UnmarshalJSON decodes {"type":"move","x":1,"y":2} style messages.
func (e *Event) UnmarshalJSON(b []byte) error {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	for k, name := range kindNames {
		if name == w.Type {
			*e = Event{Kind: k, X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
			return nil
		}
	}
	return fmt.Errorf("input: unknown event type %q", w.Type)
}

// Handler receives events.
type Handler func(Event)

// Source delivers events to subscribed handlers. Every subscription is owned
// by the caller and is released through the returned function.
type Source interface {
	Subscribe(h Handler) (unsubscribe func())
}

// Hub is an in-process Source. Publish calls the handlers synchronously in
// the order they subscribed.
type Hub struct {
	mu       sync.Mutex
	next     int
	handlers map[int]Handler
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[int]Handler)}
}

// Subscribe implements Source.
func (h *Hub) Subscribe(fn Handler) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.handlers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.handlers, id)
			h.mu.Unlock()
		})
	}
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}

// Publish delivers ev to every subscriber.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.handlers))
	for id := range h.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Handler, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.handlers[id])
	}
	h.mu.Unlock()

	// Handlers may unsubscribe while being called.
	for _, fn := range fns {
		fn(ev)
	}
}

// Point is a pointer coordinate.
type Point struct {
	X, Y float64
}

// Slot holds the last known pointer position. Writers replace the value
// atomically, readers see the latest write.
type Slot struct {
	v atomic.Pointer[Point]
}

// NewSlot creates a slot holding (x, y).
func NewSlot(x, y float64) *Slot {
	s := new(Slot)
	s.Store(x, y)
	return s
}

// Store replaces the pointer position.
func (s *Slot) Store(x, y float64) {
	s.v.Store(&Point{X: x, Y: y})
}

// Load returns the pointer position.
func (s *Slot) Load() Point {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return Point{}
}
