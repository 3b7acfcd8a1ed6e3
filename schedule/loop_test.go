// ABOUTME: Tests for the event-loop clock
// ABOUTME: Run with -race: callbacks share unsynchronized state with the receiving goroutine

package schedule

import (
	"testing"
	"time"
)

func TestLoop_CallbacksRunOnReceiver(t *testing.T) {
	loop := NewLoop()
	h := NewHandle(loop)

	// Written by both the callback and the loop below without locking
	var events []string

	h.Repeat(time.Millisecond, func() { events = append(events, "tick") })

	timeout := time.After(5 * time.Second)
	ticks := 0

	for ticks < 5 {
		events = append(events, "move")

		select {
		case f := <-loop.C():
			f()
		case <-timeout:
			t.Fatal("timer callback never delivered")
		}

		ticks = 0
		for _, e := range events {
			if e == "tick" {
				ticks++
			}
		}
	}

	h.Cancel()

	if h.Pending() {
		t.Error("handle should be idle after Cancel")
	}
}

func TestLoop_StopAfterDelivery(t *testing.T) {
	loop := NewLoop()

	called := false
	timer := loop.AfterFunc(0, func() { called = true })

	var f func()

	select {
	case f = <-loop.C():
	case <-time.After(5 * time.Second):
		t.Fatal("timer callback never delivered")
	}

	if !timer.Stop() {
		t.Error("Stop before the callback ran should succeed")
	}

	f()

	if called {
		t.Error("stopped callback ran")
	}

	if timer.Stop() {
		t.Error("second Stop should report false")
	}
}

func TestLoop_RunPending(t *testing.T) {
	loop := NewLoop()

	if n := loop.RunPending(); n != 0 {
		t.Errorf("RunPending on idle loop = %d, want 0", n)
	}

	calls := 0
	loop.AfterFunc(0, func() { calls++ })

	deadline := time.Now().Add(5 * time.Second)
	for calls == 0 && time.Now().Before(deadline) {
		loop.RunPending()
		time.Sleep(time.Millisecond)
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
