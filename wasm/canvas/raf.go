//go:build js && wasm

package canvas

import (
	"syscall/js"
	"time"

	"github.com/esimov/ascii-cloud/frame"
)

type request struct {
	handle js.Value
	fn     js.Func
}

// Scheduler implements frame.Scheduler with requestAnimationFrame.
type Scheduler struct {
	window  js.Value
	start   time.Time
	next    frame.ID
	pending map[frame.ID]request
}

// NewScheduler returns a scheduler driven by the browser's paint clock.
func NewScheduler() *Scheduler {
	return &Scheduler{
		window:  js.Global(),
		start:   time.Now(),
		pending: make(map[frame.ID]request),
	}
}

// Request implements frame.Scheduler.
func (s *Scheduler) Request(cb frame.Callback) frame.ID {
	s.next++
	id := s.next

	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		req, ok := s.pending[id]
		if !ok {
			return nil
		}
		delete(s.pending, id)
		req.fn.Release()

		now := time.Now()
		if len(args) > 0 {
			now = s.start.Add(time.Duration(args[0].Float() * float64(time.Millisecond)))
		}
		cb(now)
		return nil
	})
	handle := s.window.Call("requestAnimationFrame", fn)
	s.pending[id] = request{handle: handle, fn: fn}
	return id
}

// Cancel implements frame.Scheduler.
func (s *Scheduler) Cancel(id frame.ID) {
	req, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	s.window.Call("cancelAnimationFrame", req.handle)
	req.fn.Release()
}
