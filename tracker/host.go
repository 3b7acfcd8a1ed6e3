// ABOUTME: Read-only grid/viewport queries the pointer tracker depends on
// ABOUTME: Plus the single command it may issue: changing the viewport offset

package tracker

import "gridshift/coords"

// Direction is the way an axis should edge-scroll
type Direction int

// Edge-scroll directions
const (
	None Direction = iota
	Forward
	Backward
	Reset // pointer crossed from a frozen pane into the main pane: jump back to the split
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Reset:
		return "reset"
	default:
		return "none"
	}
}

// EdgeScroll is the host's decision for one axis
type EdgeScroll struct {
	CanEdgeScroll bool
	Direction     Direction
	Delay         float64 // milliseconds until the next scroll step
}

// Zone is an inclusive range of header indices
type Zone struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Host is the grid/viewport model. The tracker only reads it, except for SetViewportOffset.
type Host interface {
	// IndexFromPixel returns the header index under an overlay pixel offset, or coords.NoIndex
	IndexFromPixel(axis coords.Axis, px float64) int
	// EdgeScrollInfo decides whether axis should scroll given the current, previous and
	// gesture-start pixel offsets
	EdgeScrollInfo(axis coords.Axis, px, prevPx, startPx float64) EdgeScroll
	IsHeaderHidden(axis coords.Axis, index int) bool
	HeaderCount(axis coords.Axis) int
	// PaneDivisions returns the index of the first unfrozen column and row
	PaneDivisions() (xSplit, ySplit int)
	// ActiveMainViewport returns the headers visible in the scrollable pane
	ActiveMainViewport() Zone
	HeaderPixelStart(axis coords.Axis, index int) float64
	// MainViewportPixelCorrection returns the pixel size of the frozen panes
	MainViewportPixelCorrection() (x, y float64)
	ScrollOffset() (x, y float64)
	// SetViewportOffset is the command sink for auto-scroll
	SetViewportOffset(x, y float64)
	ActiveSheetID() string
}
