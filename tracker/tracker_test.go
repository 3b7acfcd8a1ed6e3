// ABOUTME: Tests for the viewport pointer tracker against a stub grid host
// ABOUTME: Covers clamping, edge-scroll targets, coalescing, cadence and cancellation

package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridshift/capture"
	"gridshift/coords"
	"gridshift/schedule"
)

// stubHost is a uniform grid of 10px headers
type stubHost struct {
	size       float64
	cols, rows int
	xSplit     int
	ySplit     int
	scrollX    float64
	scrollY    float64
	viewW      float64
	viewH      float64
	hiddenCols map[int]bool
	sheet      string

	edgeFn    func(axis coords.Axis, px, prev, start float64) EdgeScroll
	edgeAxes  []coords.Axis
	offsets   [][2]float64
	lastPrevX float64
}

func newStubHost() *stubHost {
	return &stubHost{
		size:       10,
		cols:       100,
		rows:       100,
		viewW:      200,
		viewH:      100,
		hiddenCols: map[int]bool{},
		sheet:      "sheet1",
	}
}

func (h *stubHost) split(axis coords.Axis) (int, float64, int) {
	if axis == coords.Vertical {
		return h.ySplit, h.scrollY, h.rows
	}

	return h.xSplit, h.scrollX, h.cols
}

func (h *stubHost) IndexFromPixel(axis coords.Axis, px float64) int {
	split, scroll, count := h.split(axis)
	frozen := float64(split) * h.size

	if px < 0 {
		return coords.NoIndex
	}

	logical := px
	if px >= frozen {
		logical = px + scroll
	}

	idx := int(logical / h.size)
	if idx >= count {
		return coords.NoIndex
	}

	return idx
}

func (h *stubHost) EdgeScrollInfo(axis coords.Axis, px, prev, start float64) EdgeScroll {
	h.edgeAxes = append(h.edgeAxes, axis)
	if axis == coords.Horizontal {
		h.lastPrevX = prev
	}

	if h.edgeFn == nil {
		return EdgeScroll{}
	}

	return h.edgeFn(axis, px, prev, start)
}

func (h *stubHost) IsHeaderHidden(axis coords.Axis, index int) bool {
	return axis == coords.Horizontal && h.hiddenCols[index]
}

func (h *stubHost) HeaderCount(axis coords.Axis) int {
	_, _, count := h.split(axis)
	return count
}

func (h *stubHost) PaneDivisions() (int, int) { return h.xSplit, h.ySplit }

func (h *stubHost) ActiveMainViewport() Zone {
	left := h.xSplit + int(h.scrollX/h.size)
	top := h.ySplit + int(h.scrollY/h.size)

	return Zone{
		Left:   left,
		Right:  left + int((h.viewW-float64(h.xSplit)*h.size)/h.size) - 1,
		Top:    top,
		Bottom: top + int((h.viewH-float64(h.ySplit)*h.size)/h.size) - 1,
	}
}

func (h *stubHost) HeaderPixelStart(_ coords.Axis, index int) float64 {
	return float64(index) * h.size
}

func (h *stubHost) MainViewportPixelCorrection() (float64, float64) {
	return float64(h.xSplit) * h.size, float64(h.ySplit) * h.size
}

func (h *stubHost) ScrollOffset() (float64, float64) { return h.scrollX, h.scrollY }

func (h *stubHost) SetViewportOffset(x, y float64) {
	h.offsets = append(h.offsets, [2]float64{x, y})
	h.scrollX = x
	h.scrollY = y
}

func (h *stubHost) ActiveSheetID() string { return h.sheet }

type move struct {
	col, row int
	y        float64
}

type harness struct {
	host    *stubHost
	window  *capture.Window
	clock   *schedule.Fake
	tracker *Tracker
	moves   []move
	ups     int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	hs := &harness{
		host:   newStubHost(),
		window: capture.NewWindow(nil),
		clock:  schedule.NewFake(),
	}
	tr, err := New(hs.host, hs.window, Options{Clock: hs.clock, Zoom: 1})
	require.NoError(t, err)

	hs.tracker = tr

	return hs
}

func (hs *harness) start(x, y float64, dir ScrollDirection) {
	hs.tracker.Start(coords.Client{X: x, Y: y}, func(col, row int, ev *capture.Event) {
		hs.moves = append(hs.moves, move{col: col, row: row, y: ev.ClientY})
	}, func() { hs.ups++ }, dir)
}

func (hs *harness) moveTo(x, y float64) {
	hs.window.Dispatch(&capture.Event{Type: capture.PointerMove, ClientX: x, ClientY: y})
}

func (hs *harness) release() {
	hs.window.Dispatch(&capture.Event{Type: capture.PointerUp})
}

func (hs *harness) lastMove() move {
	return hs.moves[len(hs.moves)-1]
}

func forwardPastViewport(h *stubHost, delay float64) func(coords.Axis, float64, float64, float64) EdgeScroll {
	return func(axis coords.Axis, px, _, _ float64) EdgeScroll {
		if axis == coords.Horizontal && px > h.viewW {
			return EdgeScroll{CanEdgeScroll: true, Direction: Forward, Delay: delay}
		}

		return EdgeScroll{}
	}
}

func TestTracker_ResolvesIndices(t *testing.T) {
	hs := newHarness(t)
	hs.start(5, 5, All)

	hs.moveTo(35, 72)

	require.Len(t, hs.moves, 1)
	assert.Equal(t, move{col: 3, row: 7, y: 72}, hs.lastMove())
}

func TestTracker_ClampsOutOfGrid(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantCol int
		wantRow int
	}{
		{"before both axes", -20, -3, 0, 0},
		{"after both axes", 5000, 5000, 99, 99},
		{"after columns only", 5000, 15, 99, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := newHarness(t)
			hs.start(5, 5, All)
			hs.moveTo(tt.x, tt.y)

			require.Len(t, hs.moves, 1)
			assert.Equal(t, tt.wantCol, hs.lastMove().col)
			assert.Equal(t, tt.wantRow, hs.lastMove().row)
			assert.Empty(t, hs.host.offsets)
		})
	}
}

func TestTracker_ForwardEdgeScroll(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 40)
	hs.start(50, 5, All)

	hs.moveTo(230, 15)

	require.Len(t, hs.moves, 1)
	assert.Equal(t, 19, hs.lastMove().col, "forced to the last visible column")
	require.Len(t, hs.host.offsets, 1)
	assert.Equal(t, [2]float64{10, 0}, hs.host.offsets[0], "aligned on the second visible column")
	assert.True(t, hs.tracker.Rescheduling())

	hs.clock.Advance(39 * time.Millisecond)
	assert.Len(t, hs.moves, 1)

	hs.clock.Advance(time.Millisecond)
	require.Len(t, hs.moves, 2)
	assert.Equal(t, 20, hs.lastMove().col)
	assert.Equal(t, [2]float64{20, 0}, hs.host.offsets[1])
}

func TestTracker_CoalescesToLatestEvent(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 50)
	hs.start(50, 5, All)

	hs.moveTo(230, 15)
	hs.moveTo(231, 25)
	hs.moveTo(232, 35)

	assert.Len(t, hs.moves, 1, "moves while a step is pending are deferred")

	hs.clock.Advance(50 * time.Millisecond)

	require.Len(t, hs.moves, 2)
	assert.Equal(t, 35.0, hs.lastMove().y, "only the latest event is honoured")
	assert.Equal(t, 3, hs.lastMove().row)
}

func TestTracker_DelayIsRounded(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 33.6)
	hs.start(50, 5, All)

	hs.moveTo(230, 15)
	hs.clock.Advance(33 * time.Millisecond)
	assert.Len(t, hs.moves, 1)

	hs.clock.Advance(time.Millisecond)
	assert.Len(t, hs.moves, 2)
}

func TestTracker_StopsSchedulingOnceBackInside(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 20)
	hs.start(50, 5, All)

	hs.moveTo(230, 15)
	hs.clock.Advance(20 * time.Millisecond)
	hs.moveTo(100, 15)
	hs.clock.Advance(20 * time.Millisecond)

	assert.False(t, hs.tracker.Rescheduling())
	assert.Zero(t, hs.clock.Pending())
}

func TestTracker_BackwardSkipsHiddenHeaders(t *testing.T) {
	hs := newHarness(t)
	hs.host.scrollX = 100 // left = 10
	hs.host.hiddenCols[9] = true
	hs.host.hiddenCols[8] = true
	hs.host.edgeFn = func(axis coords.Axis, px, _, _ float64) EdgeScroll {
		if axis == coords.Horizontal && px < 0 {
			return EdgeScroll{CanEdgeScroll: true, Direction: Backward, Delay: 20}
		}

		return EdgeScroll{}
	}
	hs.start(50, 5, All)

	hs.moveTo(-15, 15)

	require.Len(t, hs.moves, 1)
	assert.Equal(t, 7, hs.lastMove().col)
	assert.Equal(t, [2]float64{70, 0}, hs.host.offsets[0])
}

func TestTracker_ResetToFrozenSplit(t *testing.T) {
	hs := newHarness(t)
	hs.host.xSplit = 2
	hs.host.scrollX = 150
	hs.host.edgeFn = func(axis coords.Axis, px, prev, _ float64) EdgeScroll {
		if axis == coords.Horizontal && prev < 20 && px > 20 {
			return EdgeScroll{CanEdgeScroll: true, Direction: Reset, Delay: 25}
		}

		return EdgeScroll{}
	}
	hs.start(5, 5, All)

	hs.moveTo(25, 5)

	require.Len(t, hs.moves, 1)
	assert.Equal(t, 2, hs.lastMove().col)
	assert.Equal(t, [2]float64{0, 0}, hs.host.offsets[0], "scroll back to the start of the main pane")
	assert.Equal(t, 5.0, hs.host.lastPrevX, "previous offset starts at the gesture origin")
}

func TestTracker_VerticalOnlyIgnoresColumns(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 20)
	hs.start(50, 5, Vertical)

	hs.moveTo(5000, 15)

	assert.NotContains(t, hs.host.edgeAxes, coords.Horizontal)
	assert.Empty(t, hs.host.offsets)
	assert.Equal(t, 99, hs.lastMove().col, "still clamped when not scrolling")
}

func TestTracker_HorizontalOnlyIgnoresRows(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = func(axis coords.Axis, px, _, _ float64) EdgeScroll {
		if axis == coords.Vertical && px > hs.host.viewH {
			return EdgeScroll{CanEdgeScroll: true, Direction: Forward, Delay: 20}
		}

		return EdgeScroll{}
	}
	hs.start(5, 50, Horizontal)

	hs.moveTo(15, 5000)

	assert.NotContains(t, hs.host.edgeAxes, coords.Vertical)
	assert.Empty(t, hs.host.offsets)
	assert.False(t, hs.tracker.Rescheduling())
	assert.Equal(t, 99, hs.lastMove().row, "still clamped when not scrolling")
	assert.Equal(t, 1, hs.lastMove().col)
}

func TestTracker_EdgeScrollLeavesOtherAxisUnclamped(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 20)
	hs.start(50, 5, All)

	hs.moveTo(230, -5)

	require.Len(t, hs.moves, 1)
	assert.Equal(t, 19, hs.lastMove().col)
	assert.Equal(t, coords.NoIndex, hs.lastMove().row)
	require.Len(t, hs.host.offsets, 1)
}

func TestTracker_PointerUp(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 20)
	hs.start(50, 5, All)

	hs.moveTo(230, 15)
	require.True(t, hs.tracker.Rescheduling())

	hs.release()
	hs.release()

	assert.Equal(t, 1, hs.ups)
	assert.False(t, hs.tracker.Active())
	assert.False(t, hs.window.Active())
	assert.Zero(t, hs.clock.Pending(), "pending step must be cancelled")

	hs.clock.Advance(time.Second)
	assert.Len(t, hs.moves, 1)
}

func TestTracker_BlocksKeyboardDuringGesture(t *testing.T) {
	hs := newHarness(t)

	shortcuts := 0
	hs.window.AddListener(capture.KeyDown, func(*capture.Event) { shortcuts++ })

	hs.start(5, 5, All)
	hs.window.Dispatch(&capture.Event{Type: capture.KeyDown, Key: "u"})
	assert.Zero(t, shortcuts)

	hs.release()
	hs.window.Dispatch(&capture.Event{Type: capture.KeyDown, Key: "u"})
	assert.Equal(t, 1, shortcuts)
}

func TestTracker_SheetChangeAbandonsGesture(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 20)
	hs.start(50, 5, All)

	hs.moveTo(230, 15)

	hs.tracker.SetActiveSheet("sheet2")

	assert.False(t, hs.tracker.Active())
	assert.Zero(t, hs.ups, "abandoned gestures do not report pointer up")
	assert.Zero(t, hs.clock.Pending())
	assert.False(t, hs.window.Active())

	hs.release()
	assert.Zero(t, hs.ups)
}

func TestTracker_SheetChangeDetectedOnTick(t *testing.T) {
	hs := newHarness(t)
	hs.host.edgeFn = forwardPastViewport(hs.host, 20)
	hs.start(50, 5, All)

	hs.moveTo(230, 15)
	hs.host.sheet = "reloaded"
	hs.clock.Advance(20 * time.Millisecond)

	assert.Len(t, hs.moves, 1)
	assert.False(t, hs.tracker.Active())
	assert.Zero(t, hs.ups)
}

func TestTracker_StartAbandonsPrevious(t *testing.T) {
	hs := newHarness(t)
	hs.start(5, 5, All)
	hs.start(5, 5, All)

	assert.Equal(t, 1, hs.window.ListenerCount(capture.PointerMove))
	assert.Equal(t, 1, hs.window.ListenerCount(capture.KeyDown))
}
