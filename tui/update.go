// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function, routing input through the capture window

package tui

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"gridshift/capture"
	"gridshift/config"
	"gridshift/coords"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case clockTickMsg:
		m.ws.clock.fire(msg.id)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case fileChangeMsg:
		cmd = m.handleFileChange()

	case sheetReloadedMsg:
		cmd = m.handleReload(msg)
	}

	// Engine timers armed while handling msg become tick commands here
	return m, tea.Batch(cmd, m.ws.clock.drain())
}

// mouseEvent converts a Bubble Tea mouse message to a capture event, or nil if irrelevant
func mouseEvent(msg tea.MouseMsg) *capture.Event {
	ev := &capture.Event{ClientX: float64(msg.X), ClientY: float64(msg.Y)}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		ev.Type = capture.Wheel

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			ev.DeltaY = -1
		case tea.MouseButtonWheelDown:
			ev.DeltaY = 1
		case tea.MouseButtonWheelLeft:
			ev.DeltaX = -1
		default:
			ev.DeltaX = 1
		}

		if msg.Shift {
			ev.DeltaX, ev.DeltaY = ev.DeltaY, ev.DeltaX
		}

		return ev
	}

	switch msg.Action {
	case tea.MouseActionPress:
		ev.Type = capture.PointerDown
	case tea.MouseActionRelease:
		ev.Type = capture.PointerUp
	case tea.MouseActionMotion:
		ev.Type = capture.PointerMove
	default:
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = capture.ButtonPrimary
	case tea.MouseButtonMiddle:
		ev.Button = capture.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = capture.ButtonSecondary
	}

	return ev
}

// handleMouse dispatches pointer input to the active gesture or starts a new one
func (m *model) handleMouse(msg tea.MouseMsg) {
	ev := mouseEvent(msg)
	if ev == nil {
		return
	}

	switch ev.Type {
	case capture.PointerDown:
		if m.ws.window.Active() {
			m.ws.window.Dispatch(ev)
			return
		}

		if ev.Button == capture.ButtonPrimary {
			m.handlePress(ev)
		}

	case capture.Wheel:
		if m.ws.window.Dispatch(ev) {
			return
		}

		m.ws.view.ScrollBy(coords.Horizontal, ev.DeltaX*wheelStep)
		m.ws.view.ScrollBy(coords.Vertical, ev.DeltaY*wheelStep)

	default:
		m.ws.window.Dispatch(ev)
	}
}

// handleKey applies keyboard shortcuts unless a gesture is blocking them
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// ctrl+c always quits, even mid-gesture
	if msg.Type != tea.KeyCtrlC {
		ev := &capture.Event{Type: capture.KeyDown, Key: msg.String()}
		if m.ws.window.Dispatch(ev) {
			m.debugf("[TUI] Key %q blocked by active gesture", ev.Key)
			return nil
		}
	}

	ws := m.ws

	switch {
	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()
	case key.Matches(msg, keys.Up):
		ws.moveCursor(0, -1)
	case key.Matches(msg, keys.Down):
		ws.moveCursor(0, 1)
	case key.Matches(msg, keys.Left):
		ws.moveCursor(-1, 0)
	case key.Matches(msg, keys.Right):
		ws.moveCursor(1, 0)
	case key.Matches(msg, keys.Hide):
		ws.hideCursorColumn()
	case key.Matches(msg, keys.Unhide):
		ws.unhideAll()
	case key.Matches(msg, keys.Freeze):
		ws.toggleFreeze()
	case key.Matches(msg, keys.AutoFit):
		m.autoFit()
	case key.Matches(msg, keys.Clear):
		ws.selection = nil
	case key.Matches(msg, keys.Undo):
		ws.undo()
	case key.Matches(msg, keys.Redo):
		ws.redo()
	case key.Matches(msg, keys.Save):
		m.save()
	}

	return nil
}

// handleQuitKey handles the quit key press
func (m *model) handleQuitKey() tea.Cmd {
	m.quitting = true
	m.ws.cancelGestures()

	if m.configPath != "" {
		if err := config.SaveConfig(m.configPath, m.cfg); err != nil {
			m.debugf("[TUI] Failed to save config on quit: %v", err)
		}
	}

	return tea.Quit
}

func (ws *workspace) hideCursorColumn() {
	visible := 0
	for _, h := range ws.view.Sheet().Cols {
		if !h.Hidden {
			visible++
		}
	}

	if visible <= 1 {
		ws.setStatusMsg("Cannot hide the last visible column")
		return
	}

	ws.pushUndo()

	hidden := ws.cursorCol
	if err := ws.view.Sheet().HideHeader(coords.Horizontal, hidden); err != nil {
		ws.setStatusMsg(fmt.Sprintf("Hide failed: %v", err))
		return
	}

	// Move off the hidden column, preferring the right
	if next := ws.step(coords.Horizontal, hidden, 1); next != hidden {
		ws.cursorCol = next
	} else {
		ws.cursorCol = ws.step(coords.Horizontal, hidden, -1)
	}

	ws.view.ScrollBy(coords.Horizontal, 0)
	ws.ensureCursorVisible()
	ws.setStatusMsg(fmt.Sprintf("Hid column %s (Undo: %d, Redo: %d)",
		headerLabel(coords.Horizontal, hidden), ws.undoMgr.UndoSize(), ws.undoMgr.RedoSize()))
}

func (ws *workspace) unhideAll() {
	before := ws.snapshot().Sheet.Clone()

	sheet := ws.view.Sheet()
	n := sheet.UnhideAll(coords.Horizontal) + sheet.UnhideAll(coords.Vertical)
	if n == 0 {
		ws.setStatusMsg("Nothing hidden")
		return
	}

	state := ws.snapshot()
	state.Sheet = before
	ws.undoMgr.Push(state)

	ws.setStatusMsg(fmt.Sprintf("Unhid %d headers", n))
}

// toggleFreeze freezes panes above and left of the cursor, or unfreezes if already there
func (ws *workspace) toggleFreeze() {
	xSplit, ySplit := ws.cursorCol, ws.cursorRow

	if cx, cy := ws.view.PaneDivisions(); cx == xSplit && cy == ySplit {
		xSplit, ySplit = 0, 0
	}

	ws.pushUndo()

	if err := ws.view.SetFrozen(xSplit, ySplit); err != nil {
		ws.setStatusMsg(fmt.Sprintf("Freeze failed: %v", err))
		return
	}

	ws.ensureCursorVisible()
	ws.setStatusMsg(fmt.Sprintf("Frozen %d columns, %d rows", xSplit, ySplit))
}

func (m *model) autoFit() {
	m.ws.pushUndo()
	m.ws.view.Sheet().AutoFitWidths(m.pool, m.cfg.Grid.MinColWidth, m.cfg.Grid.MaxColWidth)
	m.ws.view.ScrollBy(coords.Horizontal, 0)
	m.ws.ensureCursorVisible()
	m.ws.setStatusMsg("Fitted column widths")
}

// undo restores previous state from undo stack using UndoManager
func (ws *workspace) undo() {
	state, ok := ws.undoMgr.Undo(ws.snapshot())
	if !ok {
		ws.setStatusMsg("Nothing to undo")
		return
	}

	ws.restore(state)
	ws.setStatusMsg(fmt.Sprintf("Undo (Undo: %d, Redo: %d)", ws.undoMgr.UndoSize(), ws.undoMgr.RedoSize()))
}

// redo restores next state from redo stack using UndoManager
func (ws *workspace) redo() {
	state, ok := ws.undoMgr.Redo(ws.snapshot())
	if !ok {
		ws.setStatusMsg("Nothing to redo")
		return
	}

	ws.restore(state)
	ws.setStatusMsg(fmt.Sprintf("Redo (Undo: %d, Redo: %d)", ws.undoMgr.UndoSize(), ws.undoMgr.RedoSize()))
}

// save writes the sheet to the output path
func (m *model) save() {
	if m.dryRun {
		m.ws.setStatusMsg("--dry-run mode: not saved")
		return
	}

	m.ws.lastSave = time.Now()

	if err := m.ws.view.Sheet().SaveFile(m.outputPath); err != nil {
		m.debugf("[TUI] Save failed: %v", err)
		m.ws.setStatusMsg(fmt.Sprintf("Save failed: %v", err))

		return
	}

	m.debugf("[TUI] Saved sheet to %s", m.outputPath)
	m.ws.setStatusMsg("Saved " + m.outputPath)
}
