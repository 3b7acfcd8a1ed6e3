// ABOUTME: Clock abstraction for drag timers and a single-slot timer handle
// ABOUTME: Keeps at most one pending callback per handle so reschedules never overlap

// Package schedule provides the timers used by the drag engine.
//
// Callbacks run on the same goroutine as the code that schedules them (the UI event
// loop). Loop hands due callbacks to the host through a channel; Fake runs them inside
// Advance.
package schedule

import (
	"errors"
	"time"
)

// ErrNoClock is returned by constructors that need a Clock and were given none
var ErrNoClock = errors.New("no clock")

// Timer is a scheduled callback that can be stopped before it fires
type Timer interface {
	// Stop prevents the callback from firing. Returns false if it already fired or was stopped.
	Stop() bool
}

// Clock schedules callbacks after a delay
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Handle owns at most one pending timer.
// Not safe for concurrent use.
type Handle struct {
	clock Clock
	timer Timer
	gen   uint64 // bumped on every schedule/cancel so a stale fire is ignored
}

// NewHandle creates an empty handle on the given clock, which must not be nil
func NewHandle(clock Clock) *Handle {
	return &Handle{clock: clock}
}

// Pending reports whether a callback is scheduled
func (h *Handle) Pending() bool {
	return h.timer != nil
}

// Schedule arms the handle to run f after d.
// Returns false without scheduling anything if a callback is already pending.
// The slot is released before f runs, so f may schedule again.
func (h *Handle) Schedule(d time.Duration, f func()) bool {
	if h.timer != nil {
		return false
	}

	h.gen++
	gen := h.gen

	h.timer = h.clock.AfterFunc(d, func() {
		if h.gen != gen {
			return
		}

		h.timer = nil
		f()
	})

	return true
}

// Repeat runs f every interval until Cancel is called.
// Returns false if a callback is already pending.
func (h *Handle) Repeat(interval time.Duration, f func()) bool {
	var tick func()

	tick = func() {
		h.Schedule(interval, tick)
		f()
	}

	return h.Schedule(interval, tick)
}

// Cancel stops the pending callback, if any. Safe to call repeatedly.
func (h *Handle) Cancel() {
	if h.timer == nil {
		return
	}

	h.timer.Stop()
	h.timer = nil
	h.gen++
}
