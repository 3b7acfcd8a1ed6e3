// ABOUTME: Viewport manager for cursor-to-middle scrolling of the grid's main pane
// ABOUTME: Implements vim/less style scrolling behavior along one axis, in cells

package tui

import "math"

// ViewportManager handles cursor visibility along one axis of the main pane.
// Positions are relative to the start of the main pane.
type ViewportManager struct {
	extent      float64 // Visible pane size
	cursorStart float64 // Where the cursor header begins
	cursorSize  float64 // Cursor header size
	total       float64 // Size of every header in the pane
}

// NewViewportManager creates a new viewport manager
func NewViewportManager(extent, cursorStart, cursorSize, total float64) *ViewportManager {
	return &ViewportManager{
		extent:      extent,
		cursorStart: cursorStart,
		cursorSize:  cursorSize,
		total:       total,
	}
}

// CalculateOffset computes the scroll offset that keeps the cursor visible
//
// Scrolling behavior:
// - Phase 1 (top): Cursor moves freely, viewport stays at 0
// - Phase 2 (middle): Cursor stays at middle, content scrolls
// - Phase 3 (bottom): Viewport shows end, cursor moves to bottom
//
// A cursor wider than the space after the middle is kept fully in view.
func (vm *ViewportManager) CalculateOffset() float64 {
	if vm.total <= 0 || vm.extent < 1 {
		return 0
	}

	maxOffset := math.Max(vm.total-vm.extent, 0)

	var offset float64

	switch vm.GetPhase() {
	case TopPhase:
		offset = 0
	case MiddlePhase:
		offset = vm.cursorStart - vm.middle()
	default:
		offset = maxOffset
	}

	if end := vm.cursorStart + vm.cursorSize; end > offset+vm.extent {
		offset = end - vm.extent
	}

	return math.Max(0, math.Min(offset, maxOffset))
}

// ScrollPhase returns which scrolling phase the cursor is currently in
type ScrollPhase int

// Scroll phases define viewport scrolling behavior: top (cursor moves), middle (content scrolls), bottom (cursor moves).
const (
	TopPhase    ScrollPhase = iota // Cursor moves, viewport at top
	MiddlePhase                    // Cursor at middle, content scrolls
	BottomPhase                    // Viewport at bottom, cursor moves
)

// GetPhase returns the current scrolling phase
func (vm *ViewportManager) GetPhase() ScrollPhase {
	if vm.total <= 0 || vm.extent < 1 {
		return TopPhase
	}

	middle := vm.middle()
	if vm.cursorStart < middle {
		return TopPhase
	}

	bottomThreshold := vm.total - vm.extent + middle
	if vm.cursorStart < bottomThreshold {
		return MiddlePhase
	}

	return BottomPhase
}

func (vm *ViewportManager) middle() float64 {
	return math.Floor(vm.extent / 2)
}
