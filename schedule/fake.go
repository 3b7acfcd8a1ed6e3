// ABOUTME: Manually advanced clock for deterministic timer tests
// ABOUTME: Fires due callbacks in order on the goroutine calling Advance

package schedule

import (
	"sort"
	"time"
)

// Fake is a Clock whose time only moves when Advance is called
type Fake struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}

	t.stopped = true

	return true
}

// NewFake creates a fake clock at time zero
func NewFake() *Fake {
	return &Fake{}
}

// AfterFunc implements Clock
func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.seq++
	t := &fakeTimer{at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)

	return t
}

// Now returns the elapsed fake time
func (c *Fake) Now() time.Duration {
	return c.now
}

// Pending returns the number of timers that have neither fired nor been stopped
func (c *Fake) Pending() int {
	n := 0

	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}

	return n
}

// Advance moves time forward by d, firing every timer that becomes due.
// Timers scheduled by fired callbacks also fire if they fall within the window.
func (c *Fake) Advance(d time.Duration) {
	target := c.now + d

	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}

		c.now = next.at
		next.fired = true
		next.f()
	}

	c.now = target
	c.compact()
}

func (c *Fake) nextDue(target time.Duration) *fakeTimer {
	var due []*fakeTimer

	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= target {
			due = append(due, t)
		}
	}

	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}

		return due[i].seq < due[j].seq
	})

	return due[0]
}

func (c *Fake) compact() {
	live := c.timers[:0]

	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}

	c.timers = live
}
