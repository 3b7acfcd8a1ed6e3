// ABOUTME: Viewport-aware pointer tracking for drags that may leave the visible grid
// ABOUTME: Resolves logical indices and drives a variable-cadence auto-scroll timer

// Package tracker turns a stream of pointer positions into logical (column, row)
// indices, scrolling the viewport when the pointer nears or passes its edges.
package tracker

import (
	"math"
	"time"

	"gridshift/capture"
	"gridshift/coords"
	"gridshift/schedule"
)

// ScrollDirection restricts which axes may edge-scroll during a gesture
type ScrollDirection int

// Scroll directions
const (
	All ScrollDirection = iota
	Vertical
	Horizontal
)

// MoveFunc receives resolved indices for every pointer move and auto-scroll step
type MoveFunc func(col, row int, ev *capture.Event)

// Options configures a Tracker
type Options struct {
	Clock  schedule.Clock // required; auto-scroll steps run on the caller's loop
	Origin coords.Client // overlay top-left in client space
	Zoom   float64
	Debugf func(string, ...interface{})
}

// Tracker runs at most one gesture at a time
type Tracker struct {
	host   Host
	window *capture.Window
	origin coords.Client
	zoom   float64
	debugf func(string, ...interface{})

	timer   *schedule.Handle
	session *capture.Session
	unblock func()

	// gesture state, reset by cleanup
	active    bool
	sheetID   string
	direction ScrollDirection
	start     coords.Overlay
	previous  coords.Overlay
	current   *capture.Event
	onMove    MoveFunc
	onUp      func()
}

// New creates a tracker for host, listening on window
func New(host Host, window *capture.Window, opts Options) (*Tracker, error) {
	if opts.Clock == nil {
		return nil, schedule.ErrNoClock
	}

	debugf := opts.Debugf
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	return &Tracker{
		host:   host,
		window: window,
		origin: opts.Origin,
		zoom:   opts.Zoom,
		debugf: debugf,
		timer:  schedule.NewHandle(opts.Clock),
	}, nil
}

// SetOrigin updates the overlay position, e.g. after a terminal resize
func (t *Tracker) SetOrigin(origin coords.Client) {
	t.origin = origin
}

// Start begins tracking from initial. onMove is called with resolved indices for every
// move; onUp once when the pointer is released. Any gesture in progress is abandoned.
//
// Out-of-grid indices are clamped only while neither axis edge-scrolls. During an edge
// scroll the other axis reports coords.NoIndex when the pointer is outside the grid.
func (t *Tracker) Start(initial coords.Client, onMove MoveFunc, onUp func(), direction ScrollDirection) {
	t.cleanup()

	if onUp == nil {
		onUp = func() {}
	}

	t.active = true
	t.sheetID = t.host.ActiveSheetID()
	t.direction = direction
	t.start = coords.ToOverlay(initial, t.origin, t.zoom)
	t.previous = t.start
	t.onMove = onMove
	t.onUp = onUp

	t.session = capture.Start(t.window, capture.Handlers{
		OnMove: t.handleMove,
		OnUp:   t.handleUp,
	})
	t.unblock = capture.BlockKeyboard(t.window)

	t.debugf("[TRACKER] Gesture start: sheet=%s start=(%.1f, %.1f) direction=%d",
		t.sheetID, t.start.X, t.start.Y, direction)
}

// Active reports whether a gesture is outstanding
func (t *Tracker) Active() bool {
	return t.active
}

// Rescheduling reports whether an auto-scroll step is pending
func (t *Tracker) Rescheduling() bool {
	return t.timer.Pending()
}

// Cancel abandons the current gesture without calling onUp
func (t *Tracker) Cancel() {
	if !t.active {
		return
	}

	t.debugf("[TRACKER] Gesture abandoned")
	t.cleanup()
}

// SetActiveSheet notifies the tracker that the host switched sheets.
// A gesture started on another sheet is abandoned.
func (t *Tracker) SetActiveSheet(id string) {
	if t.active && id != t.sheetID {
		t.debugf("[TRACKER] Active sheet changed %s -> %s", t.sheetID, id)
		t.cleanup()
	}
}

func (t *Tracker) handleMove(ev *capture.Event) {
	t.current = ev

	// A pending auto-scroll step will pick up the latest event
	if t.timer.Pending() {
		return
	}

	t.track()
}

func (t *Tracker) handleUp(*capture.Event) {
	if !t.active {
		return
	}

	t.timer.Cancel()

	onUp := t.onUp
	onUp()
	t.cleanup()
}

func (t *Tracker) track() {
	if !t.active || t.current == nil {
		return
	}

	if id := t.host.ActiveSheetID(); id != t.sheetID {
		t.SetActiveSheet(id)
		return
	}

	ev := t.current
	offset := coords.ToOverlay(coords.Client{X: ev.ClientX, Y: ev.ClientY}, t.origin, t.zoom)

	zone := t.host.ActiveMainViewport()
	scrollX, scrollY := t.host.ScrollOffset()
	xSplit, ySplit := t.host.PaneDivisions()
	correctionX, correctionY := t.host.MainViewportPixelCorrection()

	col := t.host.IndexFromPixel(coords.Horizontal, offset.X)
	row := t.host.IndexFromPixel(coords.Vertical, offset.Y)

	scrollCol, scrollRow := false, false
	delay := math.Inf(1)

	if t.direction != Vertical {
		info := t.host.EdgeScrollInfo(coords.Horizontal, offset.X, t.previous.X, t.start.X)
		if info.CanEdgeScroll {
			var target int

			scrollCol = true
			delay = math.Min(delay, info.Delay)
			col, target = t.edgeTarget(coords.Horizontal, info.Direction, xSplit, zone.Left, zone.Right)
			scrollX = t.host.HeaderPixelStart(coords.Horizontal, target) - correctionX
		}
	}

	if t.direction != Horizontal {
		info := t.host.EdgeScrollInfo(coords.Vertical, offset.Y, t.previous.Y, t.start.Y)
		if info.CanEdgeScroll {
			var target int

			scrollRow = true
			delay = math.Min(delay, info.Delay)
			row, target = t.edgeTarget(coords.Vertical, info.Direction, ySplit, zone.Top, zone.Bottom)
			scrollY = t.host.HeaderPixelStart(coords.Vertical, target) - correctionY
		}
	}

	if !scrollCol && !scrollRow {
		col = coords.AdjustIndexWithinBounds(col, offset.X, t.host.HeaderCount(coords.Horizontal)-1)
		row = coords.AdjustIndexWithinBounds(row, offset.Y, t.host.HeaderCount(coords.Vertical)-1)
	}

	t.onMove(col, row, ev)

	// onMove may have ended the gesture
	if !t.active {
		return
	}

	if scrollCol || scrollRow {
		t.host.SetViewportOffset(scrollX, scrollY)

		wait := time.Duration(math.Round(delay)) * time.Millisecond
		t.timer.Schedule(wait, t.track)

		t.debugf("[TRACKER] Edge scroll: offset=(%.1f, %.1f) next=%s", scrollX, scrollY, wait)
	}

	t.previous = offset
}

// edgeTarget returns the index reported to the caller and the header the viewport
// should align to when scrolling in dir.
func (t *Tracker) edgeTarget(axis coords.Axis, dir Direction, split, first, last int) (index, target int) {
	switch dir {
	case Forward:
		return last, first + 1
	case Backward:
		index = first - 1
		for index > 0 && t.host.IsHeaderHidden(axis, index) {
			index--
		}

		if index < 0 {
			index = 0
		}

		return index, index
	default:
		return split, split
	}
}

func (t *Tracker) cleanup() {
	t.timer.Cancel()

	if t.session != nil {
		t.session.Cancel()
		t.session = nil
	}

	if t.unblock != nil {
		t.unblock()
		t.unblock = nil
	}

	t.active = false
	t.current = nil
	t.onMove = nil
	t.onUp = nil
}
