// ABOUTME: Wall-clock timers whose callbacks run on the host's event loop
// ABOUTME: Timer goroutines only hand callbacks over a channel; the host runs them

package schedule

import "time"

// Loop is a Clock backed by time.AfterFunc. A due timer does not run its callback;
// it sends it on C, and the host's event loop runs whatever it receives. Callbacks
// therefore never overlap the host's own event handling.
type Loop struct {
	c chan func()
}

type loopTimer struct {
	timer   *time.Timer
	stopped bool
	fired   bool
}

// NewLoop creates a loop clock. The host must keep receiving from C while timers are pending.
func NewLoop() *Loop {
	return &Loop{c: make(chan func())}
}

// C delivers due callbacks
func (l *Loop) C() <-chan func() {
	return l.c
}

// RunPending runs callbacks that are ready right now without blocking
func (l *Loop) RunPending() int {
	n := 0

	for {
		select {
		case f := <-l.c:
			f()
			n++
		default:
			return n
		}
	}
}

// AfterFunc implements Clock
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}

	run := func() {
		if t.stopped {
			return
		}

		t.fired = true
		f()
	}

	t.timer = time.AfterFunc(d, func() {
		l.c <- run
	})

	return t
}

// Stop must be called from the goroutine that receives from C
func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}

	t.stopped = true
	t.timer.Stop()

	return true
}
