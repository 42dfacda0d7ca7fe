// Package frame schedules per-frame work. A Loop plays the part of the
// display refresh signal: callbacks requested before a tick run on that tick,
// once, on the loop goroutine.
package frame

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultFPS is the refresh rate used when none is configured.
const DefaultFPS = 60

// ID identifies a pending frame request.
type ID uint64

// Callback is invoked once for the frame it was requested for.
type Callback func(now time.Time)

// Scheduler hands out one-shot frame requests.
type Scheduler interface {
	Request(cb Callback) ID
	Cancel(id ID)
}

// Loop is a ticker driven Scheduler.
type Loop struct {
	interval time.Duration

	mu      sync.Mutex
	next    ID
	pending map[ID]Callback
	after   []func(time.Time)

	posted chan func()
	done   chan struct{}
	once   sync.Once
}

// NewLoop creates a loop ticking fps times per second.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		pending:  make(map[ID]Callback),
		posted:   make(chan func(), 256),
		done:     make(chan struct{}),
	}
}

// Interval returns the time between two ticks.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Request implements Scheduler.
func (l *Loop) Request(cb Callback) ID {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	l.pending[l.next] = cb
	return l.next
}

// Cancel implements Scheduler. Cancelling an unknown or already run request
// is a no-op.
func (l *Loop) Cancel(id ID) {
	l.mu.Lock()
	delete(l.pending, id)
	l.mu.Unlock()
}

// Pending returns the number of outstanding requests.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// AfterFrame registers fn to run after every tick's callbacks, e.g. to
// present a composed frame.
func (l *Loop) AfterFrame(fn func(now time.Time)) {
	l.mu.Lock()
	l.after = append(l.after, fn)
	l.mu.Unlock()
}

// Post queues fn to run on the loop goroutine between ticks. It reports
// false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.posted <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Step runs a single tick synchronously.
func (l *Loop) Step(now time.Time) {
	l.mu.Lock()
	ids := make([]ID, 0, len(l.pending))
	for id := range l.pending {
		ids = append(ids, id)
	}
	l.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		// A callback earlier in this tick may have cancelled a later one.
		l.mu.Lock()
		cb, ok := l.pending[id]
		delete(l.pending, id)
		l.mu.Unlock()
		if ok {
			cb(now)
		}
	}

	l.mu.Lock()
	after := append([]func(time.Time){}, l.after...)
	l.mu.Unlock()
	for _, fn := range after {
		fn(now)
	}
}

// Run ticks until ctx is done. Posted work is drained between ticks.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.posted:
			fn()
		case now := <-ticker.C:
			l.Step(now)
		}
	}
}

// Animation re-requests its step every frame until stopped.
type Animation struct {
	s    Scheduler
	step Callback

	mu      sync.Mutex
	id      ID
	stopped bool
}

// Start requests the first frame of step on s.
func Start(s Scheduler, step Callback) *Animation {
	a := &Animation{s: s, step: step}
	a.mu.Lock()
	a.id = s.Request(a.tick)
	a.mu.Unlock()
	return a
}

// Scope starts an animation that is stopped when ctx is done.
func Scope(ctx context.Context, s Scheduler, step Callback) *Animation {
	a := Start(s, step)
	context.AfterFunc(ctx, a.Stop)
	return a
}

func (a *Animation) tick(now time.Time) {
	a.mu.Lock()
	stopped := a.stopped
	a.mu.Unlock()
	if stopped {
		return
	}

	a.step(now)

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.stopped {
		a.id = a.s.Request(a.tick)
	}
}

// Stop cancels the outstanding request. It is safe to call more than once,
// including from inside the step.
func (a *Animation) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	a.stopped = true
	a.s.Cancel(a.id)
}

// Running reports whether Stop has not been called yet.
func (a *Animation) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.stopped
}
