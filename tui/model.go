// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wiring the grid view to header reorder and selection drags

// Package tui provides an interactive terminal spreadsheet whose headers can be
// reordered by dragging and whose selection auto-scrolls past the viewport edges.
package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"gridshift/capture"
	"gridshift/config"
	"gridshift/coords"
	"gridshift/grid"
	"gridshift/pool"
	"gridshift/reorder"
	"gridshift/tracker"
)

// Layout constants for UI dimensions
const (
	headerRowHeight = 1 // Column letters
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	rightMargin     = 1 // Column past the body that triggers forward edge scrolling

	totalUIChrome = headerRowHeight + statusBarHeight + helpHeight
)

// Navigation and interaction constants
const (
	wheelStep             = 3               // Cells scrolled per wheel notch
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	reloadQuietPeriod     = time.Second     // File events this soon after our own save are ignored
)

// fileChangeMsg signals the watched sheet was written
type fileChangeMsg struct{}

// sheetReloadedMsg carries a sheet reloaded from disk
type sheetReloadedMsg struct {
	sheet *grid.Sheet
	err   error
}

// headerDrag is an outstanding column or row reorder
type headerDrag struct {
	axis    coords.Axis
	dragged int   // sheet index of the dragged header
	slots   []int // sheet indices in their order at drag start
	offset  float64
	helper  *reorder.Helper
	session *capture.Session
	unblock func()
}

// cellRange is a selection from an anchor cell to the cell under the pointer
type cellRange struct {
	anchorCol, anchorRow int
	col, row             int
}

func (r cellRange) bounds() (c0, r0, c1, r1 int) {
	return min(r.anchorCol, r.col), min(r.anchorRow, r.row), max(r.anchorCol, r.col), max(r.anchorRow, r.row)
}

func (r cellRange) contains(col, row int) bool {
	c0, r0, c1, r1 := r.bounds()
	return col >= c0 && col <= c1 && row >= r0 && row <= r1
}

// workspace holds state that engine callbacks mutate. The model is copied on every
// Update, so anything a closure touches lives behind this pointer.
type workspace struct {
	view    *grid.View
	window  *capture.Window
	clock   *teaClock
	tracker *tracker.Tracker
	undoMgr *UndoManager
	debugf  func(string, ...interface{})
	reorder config.ReorderConfig
	zoom    float64

	drag      *headerDrag
	selection *cellRange
	cursorCol int
	cursorRow int

	statusMsg    string
	statusMsgAge time.Time
	lastSave     time.Time
}

// model holds the TUI state
type model struct {
	ws      *workspace
	cfg     config.Config
	pool    *pool.WorkerPool
	watcher *fsnotify.Watcher
	help    help.Model
	debugf  func(string, ...interface{})

	// File I/O
	csvPath    string
	outputPath string
	configPath string
	dryRun     bool

	// UI state
	width    int
	height   int
	quitting bool
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Hide    key.Binding
	Unhide  key.Binding
	Freeze  key.Binding
	AutoFit key.Binding
	Clear   key.Binding
	Undo    key.Binding
	Redo    key.Binding
	Save    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Hide: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "hide column"),
	),
	Unhide: key.NewBinding(
		key.WithKeys("U"),
		key.WithHelp("U", "unhide all"),
	),
	Freeze: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "freeze at cursor"),
	),
	AutoFit: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "fit widths"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hide, k.Unhide, k.Freeze, k.AutoFit, k.Undo, k.Redo, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Hide, k.Unhide, k.Freeze, k.AutoFit, k.Clear},
		{k.Undo, k.Redo, k.Save, k.Quit},
	}
}

// Styles
var (
	cornerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10")).
			Background(lipgloss.Color("236"))

	frozenHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("12"))

	activeHeaderStyle = headerStyle.
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("15"))

	draggingStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("214")).
			Foreground(lipgloss.Color("0"))

	dropStyle = lipgloss.NewStyle().
			Underline(true).
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("15"))

	frozenCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	selectionStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("15"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Run starts the TUI on the sheet at opts.CSVPath
func Run(opts Options, cfg config.Config, debugf func(string, ...interface{})) error {
	sheet, err := grid.LoadFile(opts.CSVPath, sheetDefaults(cfg))
	if err != nil {
		return err
	}

	p := pool.NewWorkerPool(64)
	defer p.Close()

	sheet.AutoFitWidths(p, cfg.Grid.MinColWidth, cfg.Grid.MaxColWidth)

	m, err := initModel(sheet, opts, cfg, p, debugf)
	if err != nil {
		return err
	}

	if opts.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(opts.CSVPath); err != nil {
			return fmt.Errorf("failed to watch sheet file: %w", err)
		}

		m.watcher = watcher
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm, ok := finalModel.(model)
	if !ok {
		return nil
	}

	if fm.dryRun {
		fmt.Println("--dry-run mode: sheet not modified")
		return nil
	}

	if err := fm.ws.view.Sheet().SaveFile(fm.outputPath); err != nil {
		return fmt.Errorf("failed to save sheet: %w", err)
	}

	fmt.Printf("Saved sheet to: %s\n", fm.outputPath)

	return nil
}

// initModel creates the initial model around a loaded sheet
func initModel(sheet *grid.Sheet, opts Options, cfg config.Config, p *pool.WorkerPool, debugf func(string, ...interface{})) (model, error) {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	outputPath := opts.CSVPath
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	delay := grid.DelayPolicy{
		Min:          cfg.AutoScroll.MinDelayMS,
		Max:          cfg.AutoScroll.MaxDelayMS,
		Acceleration: cfg.AutoScroll.Acceleration,
	}

	view := grid.NewView(sheet, 0, 0, delay, debugf)
	window := capture.NewWindow(debugf)
	clock := newTeaClock()

	tr, err := tracker.New(view, window, tracker.Options{
		Clock:  clock,
		Zoom:   cfg.UI.Zoom,
		Debugf: debugf,
	})
	if err != nil {
		return model{}, fmt.Errorf("failed to create pointer tracker: %w", err)
	}

	ws := &workspace{
		view:    view,
		window:  window,
		clock:   clock,
		undoMgr: NewUndoManager(cfg.UI.UndoLimit),
		debugf:  debugf,
		reorder: cfg.Reorder,
		zoom:    cfg.UI.Zoom,
		tracker: tr,
	}

	xSplit := min(max(opts.FrozenCols, 0), len(sheet.Cols))
	ySplit := min(max(opts.FrozenRows, 0), len(sheet.Rows))
	if err := view.SetFrozen(xSplit, ySplit); err != nil {
		debugf("[TUI] Ignoring frozen panes: %v", err)
	}

	return model{
		ws:         ws,
		cfg:        cfg,
		pool:       p,
		help:       help.New(),
		debugf:     debugf,
		csvPath:    opts.CSVPath,
		outputPath: outputPath,
		configPath: opts.ConfigPath,
		dryRun:     opts.DryRun,
	}, nil
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}

	return waitForFileChange(m.watcher, m.debugf)
}

func sheetDefaults(cfg config.Config) grid.Defaults {
	return grid.Defaults{ColWidth: cfg.Grid.DefaultColWidth, RowHeight: cfg.Grid.RowHeight}
}

// ========== Layout ==========

// gutterWidth is the row-number column: the widest row label plus a space
func (m model) gutterWidth() int {
	return len(strconv.Itoa(len(m.ws.view.Sheet().Rows))) + 1
}

// origin is the client position of the first body cell
func (m model) origin() coords.Client {
	return coords.Client{X: float64(m.gutterWidth()), Y: headerRowHeight}
}

// resize fits the view to the terminal
func (m *model) resize() {
	width := max(m.width-m.gutterWidth()-rightMargin, 1)
	height := max(m.height-totalUIChrome, 1)

	m.ws.view.SetSize(float64(width)/m.ws.zoomOrOne(), float64(height)/m.ws.zoomOrOne())
	m.ws.tracker.SetOrigin(m.origin())
	m.ws.ensureCursorVisible()
}

func (ws *workspace) zoomOrOne() float64 {
	if ws.zoom <= 0 {
		return 1
	}

	return ws.zoom
}

// ========== Workspace helpers ==========

// setStatusMsg sets a transient status message with current timestamp
func (ws *workspace) setStatusMsg(msg string) {
	ws.statusMsg = msg
	ws.statusMsgAge = time.Now()
}

func (ws *workspace) snapshot() SheetState {
	xSplit, ySplit := ws.view.PaneDivisions()

	return SheetState{
		Sheet:     ws.view.Sheet(),
		CursorCol: ws.cursorCol,
		CursorRow: ws.cursorRow,
		XSplit:    xSplit,
		YSplit:    ySplit,
	}
}

// pushUndo saves current state to undo stack using UndoManager
func (ws *workspace) pushUndo() {
	ws.undoMgr.Push(ws.snapshot())
}

func (ws *workspace) restore(state SheetState) {
	ws.view.SetSheet(state.Sheet)

	if err := ws.view.SetFrozen(state.XSplit, state.YSplit); err != nil {
		ws.debugf("[TUI] Restore frozen panes: %v", err)
	}

	ws.cursorCol = state.CursorCol
	ws.cursorRow = state.CursorRow
	ws.selection = nil
	ws.clampCursor()
	ws.ensureCursorVisible()
}

// ensureCursorVisible scrolls the main pane with middle-of-screen scrolling
// Implements vim/less style scrolling using ViewportManager
func (ws *workspace) ensureCursorVisible() {
	ws.ensureVisible(coords.Horizontal, ws.cursorCol)
	ws.ensureVisible(coords.Vertical, ws.cursorRow)
}

func (ws *workspace) ensureVisible(axis coords.Axis, index int) {
	v := ws.view

	xSplit, ySplit := v.PaneDivisions()
	split := xSplit
	if axis == coords.Vertical {
		split = ySplit
	}

	if index < split {
		return
	}

	frozen := v.FrozenExtent(axis)
	start := v.HeaderPixelStart(axis, index)
	size := v.HeaderPixelStart(axis, index+1) - start

	vm := NewViewportManager(v.Extent(axis)-frozen, start-frozen, size, v.TotalExtent(axis)-frozen)
	v.ScrollTo(axis, vm.CalculateOffset())
}

func (ws *workspace) clampCursor() {
	sheet := ws.view.Sheet()
	ws.cursorCol = max(0, min(ws.cursorCol, len(sheet.Cols)-1))
	ws.cursorRow = max(0, min(ws.cursorRow, len(sheet.Rows)-1))
}

// moveCursor steps the cursor, skipping hidden headers
func (ws *workspace) moveCursor(dCol, dRow int) {
	ws.cursorCol = ws.step(coords.Horizontal, ws.cursorCol, dCol)
	ws.cursorRow = ws.step(coords.Vertical, ws.cursorRow, dRow)
	ws.selection = nil
	ws.ensureCursorVisible()
}

func (ws *workspace) step(axis coords.Axis, from, delta int) int {
	if delta == 0 {
		return from
	}

	headers := ws.view.Sheet().Headers(axis)
	for i := from + delta; i >= 0 && i < len(headers); i += delta {
		if !headers[i].Hidden {
			return i
		}
	}

	return from
}

// cancelGestures abandons any header drag or selection drag in progress
func (ws *workspace) cancelGestures() {
	if ws.drag != nil {
		ws.drag.helper.Cancel()
	}

	ws.tracker.Cancel()
}

func axisName(axis coords.Axis) string {
	if axis == coords.Vertical {
		return "row"
	}

	return "column"
}

func headerLabel(axis coords.Axis, index int) string {
	if axis == coords.Vertical {
		return strconv.Itoa(index + 1)
	}

	return grid.ColumnName(index)
}
