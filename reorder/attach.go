// ABOUTME: Wires a reorder Helper to a pointer capture session
// ABOUTME: Routes moves along one axis, commits on release, cancels on a non-primary press

package reorder

import (
	"gridshift/capture"
	"gridshift/coords"
)

// Attach drives h from the window's pointer events until release or cancellation
func (h *Helper) Attach(w *capture.Window, axis coords.Axis) *capture.Session {
	var session *capture.Session

	along := func(ev *capture.Event) float64 {
		return axis.Along(coords.Client{X: ev.ClientX, Y: ev.ClientY})
	}

	session = capture.Start(w, capture.Handlers{
		OnMove: func(ev *capture.Event) {
			h.OnPointerMove(along(ev))
		},
		OnUp: func(*capture.Event) {
			h.OnPointerUp()
		},
		OnDown: func(ev *capture.Event) {
			if h.OnPointerDown(ev.Button) {
				session.Cancel()
			}
		},
	})

	return session
}

// OnPointerDown cancels the drag when a non-primary button is pressed.
// Returns true if the drag was cancelled.
func (h *Helper) OnPointerDown(button capture.Button) bool {
	if button == capture.ButtonPrimary || h.ended {
		return false
	}

	h.Cancel()

	return true
}
