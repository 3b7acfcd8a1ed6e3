// ABOUTME: Starts and finishes pointer gestures: header reorder drags and cell selection
// ABOUTME: Translates grid geometry into reorder items and commits finished moves to the sheet

package tui

import (
	"fmt"
	"strconv"
	"time"

	"gridshift/capture"
	"gridshift/coords"
	"gridshift/reorder"
	"gridshift/tracker"
)

// paneContainer exposes the main pane of one axis to the reorder engine
type paneContainer struct {
	ws    *workspace
	axis  coords.Axis
	start float64
	end   float64
}

// Bounds implements reorder.Container
func (c *paneContainer) Bounds() (float64, float64) {
	return c.start, c.end
}

// ScrollBy implements reorder.Container
func (c *paneContainer) ScrollBy(delta float64) {
	c.ws.view.ScrollBy(c.axis, delta/c.ws.zoomOrOne())
}

// handlePress routes a primary press to the gesture for whatever was hit
func (m *model) handlePress(ev *capture.Event) {
	client := coords.Client{X: ev.ClientX, Y: ev.ClientY}
	o := coords.ToOverlay(client, m.origin(), m.ws.zoom)
	width, height := m.ws.view.Size()

	inCols := o.X >= 0 && o.X < width
	inRows := o.Y >= 0 && o.Y < height

	switch {
	case o.Y < 0 && inCols:
		if col := m.ws.view.IndexFromPixel(coords.Horizontal, o.X); col != coords.NoIndex {
			m.ws.startHeaderDrag(coords.Horizontal, col, client, m.origin())
		}
	case o.X < 0 && inRows:
		if row := m.ws.view.IndexFromPixel(coords.Vertical, o.Y); row != coords.NoIndex {
			m.ws.startHeaderDrag(coords.Vertical, row, client, m.origin())
		}
	case inCols && inRows:
		m.ws.startSelection(client, o)
	}
}

// startHeaderDrag begins reordering header index within its pane
func (ws *workspace) startHeaderDrag(axis coords.Axis, index int, client, origin coords.Client) {
	v := ws.view
	zoom := ws.zoomOrOne()

	xSplit, ySplit := v.PaneDivisions()
	split := xSplit
	if axis == coords.Vertical {
		split = ySplit
	}

	lo, hi := split, v.HeaderCount(axis)
	if index < split {
		lo, hi = 0, split
	}

	base := axis.Along(origin)
	headers := v.Sheet().Headers(axis)

	var (
		items []reorder.Item
		slots []int
	)

	for i := lo; i < hi; i++ {
		if headers[i].Hidden {
			continue
		}

		items = append(items, reorder.Item{
			ID:       strconv.Itoa(i),
			Size:     headers[i].Size * zoom,
			Position: base + v.OverlayStart(axis, i)*zoom,
		})
		slots = append(slots, i)
	}

	var container reorder.Container
	if index >= split {
		container = &paneContainer{
			ws:    ws,
			axis:  axis,
			start: base + v.FrozenExtent(axis)*zoom,
			end:   base + v.Extent(axis)*zoom - 1,
		}
	}

	drag := &headerDrag{axis: axis, dragged: index, slots: slots}
	id := strconv.Itoa(index)

	helper, err := reorder.New(reorder.Options{
		DraggedItemID: id,
		MousePosition: axis.Along(client),
		Items:         items,
		Container:     container,
		OnChange: func(deltas map[string]float64) {
			drag.offset = deltas[id]
		},
		OnCancel: func() {
			ws.endHeaderDrag(drag)
			ws.setStatusMsg(fmt.Sprintf("Move of %s %s cancelled", axisName(axis), headerLabel(axis, index)))
		},
		OnDragEnd: func(_ string, slot int) {
			ws.endHeaderDrag(drag)
			ws.commitHeaderMove(drag, slot)
		},
		Clock:              ws.clock,
		EdgeScrollInterval: time.Duration(ws.reorder.EdgeScrollIntervalMS) * time.Millisecond,
		EdgeScrollStep:     ws.reorder.EdgeScrollStep,
		Debugf:             ws.debugf,
	})
	if err != nil {
		ws.debugf("[TUI] Cannot drag %s %d: %v", axisName(axis), index, err)
		return
	}

	drag.helper = helper
	drag.session = helper.Attach(ws.window, axis)
	drag.unblock = capture.BlockKeyboard(ws.window)
	ws.drag = drag
	ws.selection = nil

	ws.debugf("[TUI] Header drag start: %s %d in slots %v", axisName(axis), index, slots)
}

// endHeaderDrag releases everything a drag holds. Safe to call twice.
func (ws *workspace) endHeaderDrag(drag *headerDrag) {
	if drag.unblock != nil {
		drag.unblock()
		drag.unblock = nil
	}

	drag.helper.Destroy()

	if drag.session != nil {
		drag.session.Cancel()
	}

	if ws.drag == drag {
		ws.drag = nil
	}
}

// commitHeaderMove applies a finished drag that left the header at slot
func (ws *workspace) commitHeaderMove(drag *headerDrag, slot int) {
	order := drag.helper.Items()

	var to int

	switch {
	case slot+1 < len(order):
		next, err := strconv.Atoi(order[slot+1].ID)
		if err != nil {
			return
		}
		to = next
	case slot > 0:
		prev, err := strconv.Atoi(order[slot-1].ID)
		if err != nil {
			return
		}
		to = prev + 1
	default:
		return
	}

	if to == drag.dragged || to == drag.dragged+1 {
		ws.setStatusMsg(fmt.Sprintf("%s %s not moved", axisName(drag.axis), headerLabel(drag.axis, drag.dragged)))
		return
	}

	ws.pushUndo()

	if err := ws.view.Sheet().MoveHeaders(drag.axis, []int{drag.dragged}, to); err != nil {
		ws.debugf("[TUI] Move failed: %v", err)
		ws.setStatusMsg(fmt.Sprintf("Move failed: %v", err))

		return
	}

	final := to
	if to > drag.dragged {
		final = to - 1
	}

	cursor := &ws.cursorCol
	if drag.axis == coords.Vertical {
		cursor = &ws.cursorRow
	}

	if *cursor == drag.dragged {
		*cursor = final
	}

	ws.setStatusMsg(fmt.Sprintf("Moved %s %s to %s (Undo: %d, Redo: %d)",
		axisName(drag.axis), headerLabel(drag.axis, drag.dragged), headerLabel(drag.axis, final),
		ws.undoMgr.UndoSize(), ws.undoMgr.RedoSize()))
	ws.debugf("[TUI] Committed %s move %d -> %d", axisName(drag.axis), drag.dragged, final)
}

// dropTarget returns the sheet index currently occupying the dragged header's slot
func (ws *workspace) dropTarget() (int, bool) {
	if ws.drag == nil {
		return 0, false
	}

	slot := ws.drag.helper.IndexOf(strconv.Itoa(ws.drag.dragged))
	if slot < 0 || slot >= len(ws.drag.slots) {
		return 0, false
	}

	return ws.drag.slots[slot], true
}

// startSelection begins a rectangular selection drag at the pressed cell
func (ws *workspace) startSelection(client coords.Client, o coords.Overlay) {
	v := ws.view

	col := coords.AdjustIndexWithinBounds(v.IndexFromPixel(coords.Horizontal, o.X), o.X, v.HeaderCount(coords.Horizontal)-1)
	row := coords.AdjustIndexWithinBounds(v.IndexFromPixel(coords.Vertical, o.Y), o.Y, v.HeaderCount(coords.Vertical)-1)

	sel := &cellRange{anchorCol: col, anchorRow: row, col: col, row: row}
	ws.selection = sel
	ws.cursorCol, ws.cursorRow = col, row

	ws.tracker.Start(client, func(c, r int, _ *capture.Event) {
		// An axis outside the grid while the other auto-scrolls keeps its last cell
		if c != coords.NoIndex {
			sel.col = c
		}

		if r != coords.NoIndex {
			sel.row = r
		}
	}, func() {
		c0, r0, c1, r1 := sel.bounds()
		ws.setStatusMsg(fmt.Sprintf("Selected %s%d:%s%d", headerLabel(coords.Horizontal, c0), r0+1,
			headerLabel(coords.Horizontal, c1), r1+1))
	}, tracker.All)
}
