// ABOUTME: Viewport geometry over a sheet: frozen panes, scroll offsets, pixel/index mapping
// ABOUTME: Implements the host interface the pointer tracker queries during selection drags

package grid

import (
	"fmt"
	"math"
	"sort"

	"gridshift/coords"
	"gridshift/tracker"
)

// DelayPolicy maps how far the pointer is past an edge to an auto-scroll delay in ms
type DelayPolicy struct {
	Min          float64
	Max          float64
	Acceleration float64
}

// DefaultDelayPolicy returns the stock auto-scroll cadence
func DefaultDelayPolicy() DelayPolicy {
	return DelayPolicy{Min: 20, Max: 140, Acceleration: 0.035}
}

// ScrollDelay decays exponentially from Max at one cell past the edge towards Min
func (p DelayPolicy) ScrollDelay(distance float64) float64 {
	distance = math.Max(distance, 1)
	return p.Min + (p.Max-p.Min)*math.Exp(-p.Acceleration*(distance-1))
}

// Segment is the visible part of one header in overlay space
type Segment struct {
	Index  int
	Offset int // overlay start of the visible part
	Width  int // visible cells
	Skip   int // cells clipped off the leading edge
}

// View is a window onto a sheet. Overlay space starts at the first body cell;
// the frozen pane occupies [0, frozen) and the main pane the rest.
type View struct {
	sheet   *Sheet
	width   float64
	height  float64
	xSplit  int
	ySplit  int
	scrollX float64
	scrollY float64
	delay   DelayPolicy
	debugf  func(string, ...interface{})
}

var _ tracker.Host = (*View)(nil)

// NewView creates a view of sheet with a body of width x height cells
func NewView(sheet *Sheet, width, height float64, delay DelayPolicy, debugf func(string, ...interface{})) *View {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	return &View{
		sheet:  sheet,
		width:  width,
		height: height,
		delay:  delay,
		debugf: debugf,
	}
}

// Sheet returns the displayed sheet
func (v *View) Sheet() *Sheet {
	return v.sheet
}

// SetSheet swaps the displayed sheet, keeping panes and scroll where still valid
func (v *View) SetSheet(s *Sheet) {
	v.sheet = s
	v.xSplit = min(v.xSplit, len(s.Cols))
	v.ySplit = min(v.ySplit, len(s.Rows))
	v.ScrollTo(coords.Horizontal, v.scrollX)
	v.ScrollTo(coords.Vertical, v.scrollY)
}

// SetSize resizes the body area
func (v *View) SetSize(width, height float64) {
	v.width = math.Max(width, 0)
	v.height = math.Max(height, 0)
	v.ScrollTo(coords.Horizontal, v.scrollX)
	v.ScrollTo(coords.Vertical, v.scrollY)
}

// Size returns the body area
func (v *View) Size() (width, height float64) {
	return v.width, v.height
}

// SetFrozen freezes the first xSplit columns and ySplit rows
func (v *View) SetFrozen(xSplit, ySplit int) error {
	if xSplit < 0 || xSplit > len(v.sheet.Cols) || ySplit < 0 || ySplit > len(v.sheet.Rows) {
		return fmt.Errorf("%w: freeze at (%d, %d) of (%d, %d)",
			ErrIndexOutOfRange, xSplit, ySplit, len(v.sheet.Cols), len(v.sheet.Rows))
	}

	v.xSplit, v.ySplit = xSplit, ySplit
	v.scrollX, v.scrollY = 0, 0
	v.debugf("[GRID] Frozen panes at col=%d row=%d", xSplit, ySplit)

	return nil
}

// ScrollTo sets the main-pane scroll on axis, clamped to the scrollable range
func (v *View) ScrollTo(axis coords.Axis, value float64) {
	value = math.Max(0, math.Min(value, v.maxScroll(axis)))

	if axis == coords.Vertical {
		v.scrollY = value
		return
	}

	v.scrollX = value
}

// ScrollBy scrolls the main pane by delta on axis
func (v *View) ScrollBy(axis coords.Axis, delta float64) {
	v.ScrollTo(axis, v.scroll(axis)+delta)
}

// Extent returns the body size along axis
func (v *View) Extent(axis coords.Axis) float64 {
	if axis == coords.Vertical {
		return v.height
	}

	return v.width
}

// FrozenExtent returns the size of the frozen pane along axis
func (v *View) FrozenExtent(axis coords.Axis) float64 {
	return v.prefix(axis)[v.split(axis)]
}

// TotalExtent returns the size of every visible header along axis
func (v *View) TotalExtent(axis coords.Axis) float64 {
	p := v.prefix(axis)
	return p[len(p)-1]
}

// OverlayStart returns where header index begins on screen, which may lie outside the body
func (v *View) OverlayStart(axis coords.Axis, index int) float64 {
	start := v.HeaderPixelStart(axis, index)
	if index < v.split(axis) {
		return start
	}

	return start - v.scroll(axis)
}

// Segments lists the visible headers on axis in screen order, frozen pane first
func (v *View) Segments(axis coords.Axis) []Segment {
	p := v.prefix(axis)
	split := v.split(axis)
	extent := v.Extent(axis)
	frozen := p[split]
	scroll := v.scroll(axis)

	var out []Segment

	for i := 0; i < split; i++ {
		start, end := p[i], math.Min(p[i+1], extent)
		if end <= start {
			continue
		}

		out = append(out, Segment{Index: i, Offset: int(start), Width: int(end - start)})
	}

	lo, hi := frozen+scroll, scroll+extent
	for i := split; i < len(p)-1 && p[i] < hi; i++ {
		start, end := math.Max(p[i], lo), math.Min(p[i+1], hi)
		if end <= start {
			continue
		}

		out = append(out, Segment{
			Index:  i,
			Offset: int(start - scroll),
			Width:  int(end - start),
			Skip:   int(start - p[i]),
		})
	}

	return out
}

// EnsureVisible scrolls the minimum amount to bring a main-pane header fully into view
func (v *View) EnsureVisible(axis coords.Axis, index int) {
	if index < v.split(axis) {
		return
	}

	p := v.prefix(axis)
	if index >= len(p)-1 {
		return
	}

	scroll := v.scroll(axis)
	lo := p[v.split(axis)] + scroll
	hi := scroll + v.Extent(axis)

	switch {
	case p[index] < lo:
		v.ScrollTo(axis, p[index]-p[v.split(axis)])
	case p[index+1] > hi:
		v.ScrollTo(axis, p[index+1]-v.Extent(axis))
	}
}

// IndexFromPixel maps an overlay pixel to a header index, or coords.NoIndex
func (v *View) IndexFromPixel(axis coords.Axis, px float64) int {
	if px < 0 {
		return coords.NoIndex
	}

	p := v.prefix(axis)
	split := v.split(axis)

	if px < p[split] {
		return locate(p, 0, split, px)
	}

	return locate(p, split, len(p)-1, px+v.scroll(axis))
}

// EdgeScrollInfo decides whether a pointer at px should auto-scroll the main pane
func (v *View) EdgeScrollInfo(axis coords.Axis, px, prevPx, startPx float64) tracker.EdgeScroll {
	extent := v.Extent(axis)
	frozen := v.FrozenExtent(axis)
	scroll := v.scroll(axis)

	switch {
	case px >= extent && scroll < v.maxScroll(axis):
		return tracker.EdgeScroll{
			CanEdgeScroll: true,
			Direction:     tracker.Forward,
			Delay:         v.delay.ScrollDelay(px - extent + 1),
		}
	case px < frozen && startPx >= frozen && scroll > 0:
		return tracker.EdgeScroll{
			CanEdgeScroll: true,
			Direction:     tracker.Backward,
			Delay:         v.delay.ScrollDelay(frozen - px),
		}
	case v.split(axis) > 0 && prevPx < frozen && px >= frozen && scroll > 0:
		return tracker.EdgeScroll{
			CanEdgeScroll: true,
			Direction:     tracker.Reset,
			Delay:         v.delay.ScrollDelay(1),
		}
	}

	return tracker.EdgeScroll{}
}

// IsHeaderHidden reports whether a header is hidden; out-of-range indices are not
func (v *View) IsHeaderHidden(axis coords.Axis, index int) bool {
	headers := v.sheet.Headers(axis)
	if index < 0 || index >= len(headers) {
		return false
	}

	return headers[index].Hidden
}

// HeaderCount returns the number of headers on axis
func (v *View) HeaderCount(axis coords.Axis) int {
	return len(v.sheet.Headers(axis))
}

// PaneDivisions returns the frozen column and row counts
func (v *View) PaneDivisions() (xSplit, ySplit int) {
	return v.xSplit, v.ySplit
}

// ActiveMainViewport returns the first and last headers visible in the main pane
func (v *View) ActiveMainViewport() tracker.Zone {
	left, right := v.visibleRange(coords.Horizontal)
	top, bottom := v.visibleRange(coords.Vertical)

	return tracker.Zone{Left: left, Right: right, Top: top, Bottom: bottom}
}

// HeaderPixelStart returns the logical start of a header, with hidden headers taking no space
func (v *View) HeaderPixelStart(axis coords.Axis, index int) float64 {
	p := v.prefix(axis)
	index = max(0, min(index, len(p)-1))

	return p[index]
}

// MainViewportPixelCorrection returns where the main pane begins on each axis
func (v *View) MainViewportPixelCorrection() (x, y float64) {
	return v.FrozenExtent(coords.Horizontal), v.FrozenExtent(coords.Vertical)
}

// ScrollOffset returns the main-pane scroll
func (v *View) ScrollOffset() (x, y float64) {
	return v.scrollX, v.scrollY
}

// SetViewportOffset scrolls the main pane, clamping each axis
func (v *View) SetViewportOffset(x, y float64) {
	v.ScrollTo(coords.Horizontal, x)
	v.ScrollTo(coords.Vertical, y)
}

// ActiveSheetID returns the displayed sheet's identity
func (v *View) ActiveSheetID() string {
	return v.sheet.ID
}

func (v *View) visibleRange(axis coords.Axis) (first, last int) {
	p := v.prefix(axis)
	n := len(p) - 1
	split := v.split(axis)
	scroll := v.scroll(axis)

	if n == 0 {
		return 0, 0
	}

	first = locate(p, split, n, p[split]+scroll)
	if first == coords.NoIndex {
		first = min(split, n-1)
	}

	last = locate(p, split, n, scroll+v.Extent(axis)-1)
	if last == coords.NoIndex {
		last = n - 1
	}

	return first, max(first, last)
}

func (v *View) split(axis coords.Axis) int {
	if axis == coords.Vertical {
		return v.ySplit
	}

	return v.xSplit
}

func (v *View) scroll(axis coords.Axis) float64 {
	if axis == coords.Vertical {
		return v.scrollY
	}

	return v.scrollX
}

func (v *View) maxScroll(axis coords.Axis) float64 {
	return math.Max(0, v.TotalExtent(axis)-v.Extent(axis))
}

// prefix returns cumulative header starts; prefix[i] is where header i begins
func (v *View) prefix(axis coords.Axis) []float64 {
	headers := v.sheet.Headers(axis)
	p := make([]float64, len(headers)+1)

	for i, h := range headers {
		p[i+1] = p[i]
		if !h.Hidden {
			p[i+1] += h.Size
		}
	}

	return p
}

// locate finds the header in [lo, hi) whose span contains logical
func locate(p []float64, lo, hi int, logical float64) int {
	if lo >= hi || logical < p[lo] {
		return coords.NoIndex
	}

	i := lo + sort.Search(hi-lo, func(k int) bool { return p[lo+k+1] > logical })
	if i >= hi {
		return coords.NoIndex
	}

	return i
}
