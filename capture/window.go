// ABOUTME: Global pointer/keyboard event listener set shared by all drag gestures
// ABOUTME: Dispatches host input events to capture listeners first, then bubble listeners

// Package capture owns the window-level input listeners used while a drag is in progress.
package capture

// EventType identifies the kind of input event
type EventType int

// Input event kinds
const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	Wheel
	DragStart
	KeyDown
)

func (t EventType) String() string {
	switch t {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case Wheel:
		return "wheel"
	case DragStart:
		return "dragstart"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

// Button is a pointer button
type Button int

// Pointer buttons
const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// Event is a host input event in client coordinates
type Event struct {
	Type    EventType
	ClientX float64
	ClientY float64
	Button  Button
	DeltaX  float64 // wheel only
	DeltaY  float64 // wheel only
	Key     string  // keydown only

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the host's default handling of the event
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation prevents listeners registered later from seeing the event
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles a dispatched event
type Listener func(*Event)

type entry struct {
	id      int
	fn      Listener
	capture bool
}

// Window is the single shared listener set. Only one Session may own it at a time.
type Window struct {
	listeners map[EventType][]entry
	nextID    int
	active    *Session
	debugf    func(string, ...interface{})
}

// NewWindow creates an empty listener set
func NewWindow(debugf func(string, ...interface{})) *Window {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	return &Window{
		listeners: make(map[EventType][]entry),
		debugf:    debugf,
	}
}

// AddListener registers a bubble-phase listener and returns its removal function
func (w *Window) AddListener(t EventType, fn Listener) func() {
	return w.add(t, fn, false)
}

// AddCaptureListener registers a listener that runs before every bubble-phase listener
func (w *Window) AddCaptureListener(t EventType, fn Listener) func() {
	return w.add(t, fn, true)
}

func (w *Window) add(t EventType, fn Listener, capture bool) func() {
	w.nextID++
	id := w.nextID
	w.listeners[t] = append(w.listeners[t], entry{id: id, fn: fn, capture: capture})

	removed := false

	return func() {
		if removed {
			return
		}

		removed = true
		w.remove(t, id)
	}
}

func (w *Window) remove(t EventType, id int) {
	entries := w.listeners[t]
	for i, e := range entries {
		if e.id == id {
			w.listeners[t] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for t
func (w *Window) ListenerCount(t EventType) int {
	return len(w.listeners[t])
}

// Active reports whether a capture session currently owns the window
func (w *Window) Active() bool {
	return w.active != nil
}

// Dispatch delivers ev to capture listeners, then bubble listeners, in registration order.
// Returns true if any listener prevented the default action.
func (w *Window) Dispatch(ev *Event) bool {
	// Snapshot: listeners may remove themselves (or others) while running
	entries := append([]entry(nil), w.listeners[ev.Type]...)

	for _, phase := range []bool{true, false} {
		for _, e := range entries {
			if e.capture != phase {
				continue
			}

			if !w.registered(ev.Type, e.id) {
				continue
			}

			e.fn(ev)

			if ev.stopped {
				return ev.defaultPrevented
			}
		}
	}

	return ev.defaultPrevented
}

func (w *Window) registered(t EventType, id int) bool {
	for _, e := range w.listeners[t] {
		if e.id == id {
			return true
		}
	}

	return false
}
