//go:build js && wasm

package canvas

import (
	"syscall/js"

	"github.com/esimov/ascii-cloud/input"
)

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

// DOMSource is an input.Source fed by window mouse and resize events.
type DOMSource struct {
	window js.Value
}

// NewDOMSource listens on the global window.
func NewDOMSource() *DOMSource {
	return &DOMSource{window: js.Global()}
}

// Subscribe implements input.Source. Every call registers its own DOM
// listeners; the returned func removes and releases them.
func (s *DOMSource) Subscribe(fn input.Handler) func() {
	doc := s.window.Get("document")
	ls := []listener{
		{s.window, "mousemove", js.FuncOf(func(_ js.Value, args []js.Value) any {
			ev := args[0]
			fn(input.Event{Kind: input.Move, X: ev.Get("clientX").Float(), Y: ev.Get("clientY").Float()})
			return nil
		})},
		{doc, "mouseleave", js.FuncOf(func(js.Value, []js.Value) any {
			fn(input.Event{Kind: input.Leave})
			return nil
		})},
		{s.window, "resize", js.FuncOf(func(js.Value, []js.Value) any {
			fn(input.Event{
				Kind:   input.Resize,
				Width:  s.window.Get("innerWidth").Float(),
				Height: s.window.Get("innerHeight").Float(),
			})
			return nil
		})},
	}
	for _, l := range ls {
		l.target.Call("addEventListener", l.event, l.fn)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		for _, l := range ls {
			l.target.Call("removeEventListener", l.event, l.fn)
			l.fn.Release()
		}
	}
}

// OnVisible calls fn the first time el scrolls into view.
func OnVisible(el js.Value, fn func()) (stop func()) {
	var (
		cb       js.Func
		observer js.Value
		done     bool
	)
	stop = func() {
		if done {
			return
		}
		done = true
		observer.Call("disconnect")
		cb.Release()
	}
	cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			if entries.Index(i).Get("isIntersecting").Bool() {
				stop()
				fn()
				break
			}
		}
		return nil
	})
	opts := js.Global().Get("Object").New()
	opts.Set("threshold", 0.1)
	observer = js.Global().Get("IntersectionObserver").New(cb, opts)
	observer.Call("observe", el)
	return stop
}
