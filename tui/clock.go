// ABOUTME: Bridges engine timers onto the Bubble Tea event loop
// ABOUTME: Each AfterFunc becomes a tea.Tick whose message fires the callback inside Update

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gridshift/schedule"
)

// clockTickMsg is delivered when a teaClock timer is due
type clockTickMsg struct {
	id uint64
}

// teaClock implements schedule.Clock without goroutines touching model state:
// callbacks only run from Update when their tick message arrives.
type teaClock struct {
	nextID uint64
	timers map[uint64]*teaTimer
	queued []tea.Cmd
}

type teaTimer struct {
	clock *teaClock
	id    uint64
	f     func()
}

var _ schedule.Clock = (*teaClock)(nil)

func newTeaClock() *teaClock {
	return &teaClock{timers: make(map[uint64]*teaTimer)}
}

// AfterFunc queues a tick command; drain must be returned from Update to start it
func (c *teaClock) AfterFunc(d time.Duration, f func()) schedule.Timer {
	c.nextID++
	id := c.nextID

	t := &teaTimer{clock: c, id: id, f: f}
	c.timers[id] = t
	c.queued = append(c.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return clockTickMsg{id: id}
	}))

	return t
}

// Stop prevents the callback from running once its tick arrives
func (t *teaTimer) Stop() bool {
	if _, ok := t.clock.timers[t.id]; !ok {
		return false
	}

	delete(t.clock.timers, t.id)

	return true
}

// fire runs the timer's callback unless it was stopped
func (c *teaClock) fire(id uint64) {
	t, ok := c.timers[id]
	if !ok {
		return
	}

	delete(c.timers, id)
	t.f()
}

// pending returns the ids of timers still waiting for their tick
func (c *teaClock) pending() []uint64 {
	ids := make([]uint64, 0, len(c.timers))
	for id := range c.timers {
		ids = append(ids, id)
	}

	return ids
}

// drain hands queued tick commands to Bubble Tea
func (c *teaClock) drain() tea.Cmd {
	if len(c.queued) == 0 {
		return nil
	}

	cmds := c.queued
	c.queued = nil

	return tea.Batch(cmds...)
}
