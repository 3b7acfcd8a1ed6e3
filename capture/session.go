// ABOUTME: Pointer capture session owning move/up/wheel/dragstart for one drag
// ABOUTME: Guarantees listeners are removed exactly once, after the up handler ran

package capture

// Handlers are the callbacks of a capture session. OnMove and OnUp are required.
type Handlers struct {
	OnMove  Listener
	OnUp    Listener
	OnWheel Listener // optional; may call PreventDefault to stop native scrolling
	OnDown  Listener // optional; pointer presses while the session is active
}

// Session is the lifetime of one drag on a Window
type Session struct {
	window   *Window
	removers []func()
	done     bool
}

// Start attaches h to the window and returns the owning session.
// Any session already active on w is cancelled first.
func Start(w *Window, h Handlers) *Session {
	if w.active != nil {
		w.debugf("[CAPTURE] Cancelling previous session before starting a new one")
		w.active.Cancel()
	}

	s := &Session{window: w}

	onWheel := h.OnWheel
	if onWheel == nil {
		onWheel = func(*Event) {}
	}

	s.removers = append(s.removers,
		w.AddListener(PointerUp, func(ev *Event) {
			if s.done {
				return
			}

			h.OnUp(ev)
			s.Cancel()
		}),
		w.AddListener(DragStart, func(ev *Event) {
			ev.PreventDefault()
		}),
		w.AddListener(PointerMove, func(ev *Event) {
			if s.done {
				return
			}

			h.OnMove(ev)
		}),
		w.AddListener(Wheel, func(ev *Event) {
			if s.done {
				return
			}

			onWheel(ev)
		}),
	)

	if h.OnDown != nil {
		s.removers = append(s.removers, w.AddListener(PointerDown, func(ev *Event) {
			if s.done {
				return
			}

			h.OnDown(ev)
		}))
	}

	w.active = s

	return s
}

// Cancel removes every listener of the session. Safe to call more than once.
func (s *Session) Cancel() {
	if s.done {
		return
	}

	s.done = true

	for _, remove := range s.removers {
		remove()
	}

	s.removers = nil

	if s.window.active == s {
		s.window.active = nil
	}
}

// Done reports whether the session has been torn down
func (s *Session) Done() bool {
	return s.done
}

// BlockKeyboard swallows every keydown at capture phase until the returned function is called
func BlockKeyboard(w *Window) func() {
	return w.AddCaptureListener(KeyDown, func(ev *Event) {
		ev.PreventDefault()
		ev.StopPropagation()
	})
}
