// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function: headers, panes, selection and status

package tui

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"gridshift/coords"
	"gridshift/grid"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Saving and exiting...\n"
	}

	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderColumnHeaders())
	b.WriteString("\n")

	lines := m.renderBody()
	bodyHeight := max(m.height-totalUIChrome, 1)

	for i := 0; i < bodyHeight; i++ {
		if i < len(lines) {
			b.WriteString(lines[i])
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(keys)))

	return b.String()
}

// renderColumnHeaders renders the corner and the column letters
func (m model) renderColumnHeaders() string {
	ws := m.ws
	xSplit, _ := ws.view.PaneDivisions()
	target, dropping := ws.dropTarget()

	var b strings.Builder

	b.WriteString(cornerStyle.Render(strings.Repeat(" ", m.gutterWidth())))

	used := 0

	for _, seg := range ws.view.Segments(coords.Horizontal) {
		header := ws.view.Sheet().Cols[seg.Index]
		text := clip(" "+grid.ColumnName(seg.Index), int(header.Size), seg.Skip, seg.Width)

		style := headerStyle
		switch {
		case ws.drag != nil && ws.drag.axis == coords.Horizontal && seg.Index == ws.drag.dragged:
			style = draggingStyle
		case dropping && ws.drag.axis == coords.Horizontal && seg.Index == target:
			style = dropStyle
		case seg.Index == ws.cursorCol:
			style = activeHeaderStyle
		case seg.Index < xSplit:
			style = frozenHeaderStyle
		}

		b.WriteString(style.Render(text))
		used = seg.Offset + seg.Width
	}

	width, _ := ws.view.Size()
	if pad := int(width) + rightMargin - used; pad > 0 {
		b.WriteString(cornerStyle.Render(strings.Repeat(" ", pad)))
	}

	return b.String()
}

// renderBody renders one string per screen line of the body
func (m model) renderBody() []string {
	ws := m.ws
	sheet := ws.view.Sheet()
	xSplit, ySplit := ws.view.PaneDivisions()
	cols := ws.view.Segments(coords.Horizontal)
	gutter := m.gutterWidth()
	target, dropping := ws.dropTarget()

	var lines []string

	for _, rowSeg := range ws.view.Segments(coords.Vertical) {
		row := rowSeg.Index

		for line := 0; line < rowSeg.Width; line++ {
			first := line+rowSeg.Skip == 0

			var b strings.Builder

			label := ""
			if first {
				label = strconv.Itoa(row + 1)
			}

			gutterStyle := headerStyle
			switch {
			case ws.drag != nil && ws.drag.axis == coords.Vertical && row == ws.drag.dragged:
				gutterStyle = draggingStyle
			case dropping && ws.drag.axis == coords.Vertical && row == target:
				gutterStyle = dropStyle
			case row == ws.cursorRow:
				gutterStyle = activeHeaderStyle
			case row < ySplit:
				gutterStyle = frozenHeaderStyle
			}

			b.WriteString(gutterStyle.Render(fmt.Sprintf("%*s ", gutter-1, label)))

			for _, colSeg := range cols {
				col := colSeg.Index

				text := ""
				if first {
					text = sheet.Cell(col, row)
				}

				cell := clip(text, int(sheet.Cols[col].Size), colSeg.Skip, colSeg.Width)

				switch {
				case col == ws.cursorCol && row == ws.cursorRow:
					b.WriteString(cursorStyle.Render(cell))
				case ws.selection != nil && ws.selection.contains(col, row):
					b.WriteString(selectionStyle.Render(cell))
				case col < xSplit || row < ySplit:
					b.WriteString(frozenCellStyle.Render(cell))
				default:
					b.WriteString(cell)
				}
			}

			lines = append(lines, b.String())
		}
	}

	return lines
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	ws := m.ws
	sheet := ws.view.Sheet()

	parts := []string{
		sheet.Name,
		fmt.Sprintf("%s%d", grid.ColumnName(ws.cursorCol), ws.cursorRow+1),
	}

	if xSplit, ySplit := ws.view.PaneDivisions(); xSplit > 0 || ySplit > 0 {
		parts = append(parts, fmt.Sprintf("frozen %d×%d", xSplit, ySplit))
	}

	if ws.drag != nil {
		if target, ok := ws.dropTarget(); ok {
			parts = append(parts, fmt.Sprintf("moving %s %s → %s (%+.0f)",
				axisName(ws.drag.axis), headerLabel(ws.drag.axis, ws.drag.dragged),
				headerLabel(ws.drag.axis, target), ws.drag.offset))
		}
	}

	if ws.tracker.Rescheduling() {
		parts = append(parts, "auto-scrolling")
	}

	if ws.statusMsg != "" && time.Since(ws.statusMsgAge) < statusMessageDuration {
		parts = append(parts, ws.statusMsg)
	}

	if m.dryRun {
		parts = append(parts, "[dry-run]")
	}

	return statusStyle.Width(m.width).Render(strings.Join(parts, "  │  "))
}

// clip renders text into a header of size cells, then keeps width cells after skipping skip
func clip(text string, size, skip, width int) string {
	full := grid.Fit(text, size)
	if skip <= 0 {
		return grid.Fit(full, width)
	}

	dropped := 0
	rest := full

	for i, r := range full {
		if dropped >= skip {
			rest = full[i:]
			break
		}

		dropped += runewidth.RuneWidth(r)
		rest = ""
	}

	// A wide rune straddling the cut leaves blank cells behind it
	if dropped > skip {
		rest = strings.Repeat(" ", dropped-skip) + rest
	}

	return grid.Fit(rest, width)
}
