// ABOUTME: Linear drag-reorder engine for a 1-D list of sized items
// ABOUTME: Computes live swap layout with dead-zone hysteresis and container edge scrolling

// Package reorder implements dragging one item of an ordered, contiguous list past its
// neighbours. It knows nothing about what the items are (columns, rows, tabs); callers
// feed pointer positions along one axis and receive position deltas.
package reorder

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gridshift/schedule"
)

// Edge-scroll defaults
const (
	DefaultEdgeScrollInterval = 5 * time.Millisecond
	DefaultEdgeScrollStep     = 3.0
)

var (
	// ErrNoItems is returned when a drag is started on an empty list
	ErrNoItems = errors.New("no items to reorder")
	// ErrUnknownItem is returned when the dragged id is not in the list
	ErrUnknownItem = errors.New("dragged item not in list")
	// ErrDuplicateItem is returned when two items share an id
	ErrDuplicateItem = errors.New("duplicate item id")
)

// Item is one draggable entry along the axis
type Item struct {
	ID       string
	Size     float64
	Position float64
}

// DeadZone is a closed pixel interval in which pointer moves cannot trigger a swap
type DeadZone struct {
	Start float64
	End   float64
}

// Contains reports whether pos lies inside the zone
func (z DeadZone) Contains(pos float64) bool {
	return pos >= z.Start && pos <= z.End
}

// Container is the scrollable element holding the items
type Container interface {
	// Bounds returns the visible extent of the container along the drag axis, in pointer space
	Bounds() (start, end float64)
	// ScrollBy scrolls the container content by delta along the drag axis
	ScrollBy(delta float64)
}

// Options configures a drag
type Options struct {
	DraggedItemID string
	MousePosition float64 // pointer position along the axis at drag start
	Items         []Item
	Container     Container

	OnChange  func(deltas map[string]float64)
	OnCancel  func()
	OnDragEnd func(id string, index int)

	Clock              schedule.Clock // required; runs edge-scroll ticks on the caller's loop
	EdgeScrollInterval time.Duration  // defaults to DefaultEdgeScrollInterval
	EdgeScrollStep     float64        // defaults to DefaultEdgeScrollStep
	Debugf             func(string, ...interface{})
}

type dragItem struct {
	Item
	positionAtStart float64
}

// Helper is the state of one drag. It is discarded once the drag ends.
type Helper struct {
	draggedID string
	items     map[string]*dragItem // arena keyed by id
	order     []string             // ids sorted by position
	index     map[string]int       // id -> position in order

	initialMousePosition float64
	currentMousePosition float64
	minPosition          float64
	maxPosition          float64

	deadZone *DeadZone

	container        Container
	edgeScroll       *schedule.Handle
	edgeScrollDir    int
	edgeScrollOffset float64
	edgeScrollStep   float64
	edgeScrollEvery  time.Duration

	onChange  func(map[string]float64)
	onCancel  func()
	onDragEnd func(string, int)
	debugf    func(string, ...interface{})

	ended bool
}

// New starts a drag of opts.DraggedItemID over opts.Items
func New(opts Options) (*Helper, error) {
	if len(opts.Items) == 0 {
		return nil, ErrNoItems
	}

	if opts.Clock == nil {
		return nil, schedule.ErrNoClock
	}

	h := &Helper{
		draggedID:            opts.DraggedItemID,
		items:                make(map[string]*dragItem, len(opts.Items)),
		order:                make([]string, 0, len(opts.Items)),
		initialMousePosition: opts.MousePosition,
		currentMousePosition: opts.MousePosition,
		container:            opts.Container,
		edgeScroll:           schedule.NewHandle(opts.Clock),
		edgeScrollStep:       opts.EdgeScrollStep,
		edgeScrollEvery:      opts.EdgeScrollInterval,
		onChange:             opts.OnChange,
		onCancel:             opts.OnCancel,
		onDragEnd:            opts.OnDragEnd,
		debugf:               opts.Debugf,
	}

	if h.edgeScrollStep <= 0 {
		h.edgeScrollStep = DefaultEdgeScrollStep
	}

	if h.edgeScrollEvery <= 0 {
		h.edgeScrollEvery = DefaultEdgeScrollInterval
	}

	if h.onChange == nil {
		h.onChange = func(map[string]float64) {}
	}

	if h.onCancel == nil {
		h.onCancel = func() {}
	}

	if h.onDragEnd == nil {
		h.onDragEnd = func(string, int) {}
	}

	if h.debugf == nil {
		h.debugf = func(string, ...interface{}) {}
	}

	for _, it := range opts.Items {
		if _, dup := h.items[it.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, it.ID)
		}

		h.items[it.ID] = &dragItem{Item: it, positionAtStart: it.Position}
		h.order = append(h.order, it.ID)
	}

	if _, ok := h.items[h.draggedID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, h.draggedID)
	}

	h.sortOrder()

	first := h.items[h.order[0]]
	last := h.items[h.order[len(h.order)-1]]
	h.minPosition = first.Position
	h.maxPosition = last.Position + last.Size

	h.debugf("[REORDER] Drag start: item=%s items=%d bounds=[%.1f, %.1f]",
		h.draggedID, len(h.order), h.minPosition, h.maxPosition)

	return h, nil
}

// OnPointerMove handles a pointer move at pos (pointer space along the drag axis)
func (h *Helper) OnPointerMove(pos float64) {
	if h.ended {
		return
	}

	h.currentMousePosition = pos

	if h.container != nil {
		start, end := h.container.Bounds()

		switch {
		case pos < start:
			h.startEdgeScroll(-1)
			return
		case pos > end:
			h.startEdgeScroll(1)
			return
		}
	}

	h.stopEdgeScroll()
	h.MoveDraggedItemToPosition(pos + h.edgeScrollOffset)
}

// MoveDraggedItemToPosition recomputes the layout with the pointer at pos (content space)
func (h *Helper) MoveDraggedItemToPosition(pos float64) {
	if h.ended {
		return
	}

	dragged := h.items[h.draggedID]
	draggedIndex := h.index[h.draggedID]
	hoveredIndex := h.hoveredItemIndex(pos)

	if h.deadZone != nil && h.deadZone.Contains(pos) {
		h.notify()
		return
	}

	if pos >= dragged.Position && pos <= dragged.Position+dragged.Size {
		h.deadZone = nil
	}

	if hoveredIndex == draggedIndex {
		h.notify()
		return
	}

	lo, hi := min(draggedIndex, hoveredIndex), max(draggedIndex, hoveredIndex)
	direction := 1.0
	if hoveredIndex < draggedIndex {
		direction = -1
	}

	moved := 0.0

	for i := lo; i <= hi; i++ {
		if i == draggedIndex {
			continue
		}

		it := h.items[h.order[i]]
		it.Position -= direction * dragged.Size
		moved += it.Size
	}

	dragged.Position += direction * moved
	h.sortOrder()

	// Zone spans from the pointer to the dragged item's edge facing the swapped neighbour
	zone := DeadZone{Start: dragged.Position, End: pos}
	if direction < 0 {
		zone = DeadZone{Start: pos, End: dragged.Position + dragged.Size}
	}

	if zone.Start > zone.End {
		zone.Start, zone.End = zone.End, zone.Start
	}

	h.deadZone = &zone

	h.debugf("[REORDER] Swap: item=%s from=%d to=%d deadZone=[%.1f, %.1f]",
		h.draggedID, draggedIndex, h.index[h.draggedID], zone.Start, zone.End)

	h.notify()
}

// OnPointerUp ends the drag, reporting the dragged item's final index
func (h *Helper) OnPointerUp() {
	if h.ended {
		return
	}

	h.ended = true
	index := h.index[h.draggedID]

	h.debugf("[REORDER] Drag end: item=%s index=%d", h.draggedID, index)
	h.onDragEnd(h.draggedID, index)
	h.stopEdgeScroll()
}

// Cancel abandons the drag without reporting a final index
func (h *Helper) Cancel() {
	if h.ended {
		return
	}

	h.ended = true
	h.stopEdgeScroll()
	h.debugf("[REORDER] Drag cancelled: item=%s", h.draggedID)
	h.onCancel()
}

// Destroy stops edge scrolling. It does not end the drag or fire callbacks.
func (h *Helper) Destroy() {
	h.stopEdgeScroll()
}

// Ended reports whether the drag was completed or cancelled
func (h *Helper) Ended() bool {
	return h.ended
}

// Positions returns every item's offset from its start position.
// The dragged item follows the pointer, clamped to stay within the list bounds.
func (h *Helper) Positions() map[string]float64 {
	out := make(map[string]float64, len(h.items))

	for id, it := range h.items {
		if id != h.draggedID {
			out[id] = it.Position - it.positionAtStart
			continue
		}

		delta := h.currentMousePosition - h.initialMousePosition + h.edgeScrollOffset
		delta = math.Max(h.minPosition-it.positionAtStart, delta)
		delta = math.Min(h.maxPosition-it.positionAtStart-it.Size, delta)
		out[id] = delta
	}

	return out
}

// Layout returns every item's settled offset from its start position, including the
// dragged item's slot rather than the pointer
func (h *Helper) Layout() map[string]float64 {
	out := make(map[string]float64, len(h.items))
	for id, it := range h.items {
		out[id] = it.Position - it.positionAtStart
	}

	return out
}

// Items returns the items in their current order with their current positions
func (h *Helper) Items() []Item {
	out := make([]Item, len(h.order))
	for i, id := range h.order {
		out[i] = h.items[id].Item
	}

	return out
}

// IndexOf returns the current index of id, or -1 if unknown
func (h *Helper) IndexOf(id string) int {
	i, ok := h.index[id]
	if !ok {
		return -1
	}

	return i
}

// DeadZone returns the active dead zone, if any
func (h *Helper) DeadZone() (DeadZone, bool) {
	if h.deadZone == nil {
		return DeadZone{}, false
	}

	return *h.deadZone, true
}

// EdgeScrolling reports whether the edge-scroll timer is running
func (h *Helper) EdgeScrolling() bool {
	return h.edgeScroll.Pending()
}

// EdgeScrollOffset returns how far the container has been auto-scrolled since drag start
func (h *Helper) EdgeScrollOffset() float64 {
	return h.edgeScrollOffset
}

// hoveredItemIndex returns the first item whose trailing edge is at or after pos
func (h *Helper) hoveredItemIndex(pos float64) int {
	if pos <= h.minPosition {
		return 0
	}

	if pos >= h.maxPosition {
		return len(h.order) - 1
	}

	for i, id := range h.order {
		it := h.items[id]
		if it.Position+it.Size >= pos {
			return i
		}
	}

	return len(h.order) - 1
}

func (h *Helper) sortOrder() {
	sort.SliceStable(h.order, func(i, j int) bool {
		return h.items[h.order[i]].Position < h.items[h.order[j]].Position
	})

	if h.index == nil {
		h.index = make(map[string]int, len(h.order))
	}

	for i, id := range h.order {
		h.index[id] = i
	}
}

func (h *Helper) notify() {
	h.onChange(h.Positions())
}

func (h *Helper) startEdgeScroll(direction int) {
	if h.edgeScroll.Pending() {
		if h.edgeScrollDir == direction {
			return
		}

		h.edgeScroll.Cancel()
	}

	h.edgeScrollDir = direction
	h.edgeScroll.Repeat(h.edgeScrollEvery, h.edgeScrollTick)
}

func (h *Helper) stopEdgeScroll() {
	h.edgeScroll.Cancel()
	h.edgeScrollDir = 0
}

func (h *Helper) edgeScrollTick() {
	pos := h.currentMousePosition + h.edgeScrollOffset

	next := pos + float64(h.edgeScrollDir)*h.edgeScrollStep
	if h.edgeScrollDir < 0 {
		next = math.Max(next, h.minPosition)
	} else {
		next = math.Min(next, h.maxPosition)
	}

	delta := next - pos
	if delta*float64(h.edgeScrollDir) <= 0 {
		return
	}

	h.edgeScrollOffset += delta
	h.MoveDraggedItemToPosition(h.currentMousePosition + h.edgeScrollOffset)

	if h.container != nil {
		h.container.ScrollBy(delta)
	}
}
