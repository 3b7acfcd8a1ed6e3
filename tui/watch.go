// ABOUTME: File watching for the displayed sheet
// ABOUTME: Reloads the CSV on write, replacing the sheet and abandoning gestures bound to it

package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"gridshift/config"
	"gridshift/grid"
)

// waitForFileChange returns a command that waits for file system events
func waitForFileChange(watcher *fsnotify.Watcher, debugf func(string, ...interface{})) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				// Only react to write events
				if event.Op&fsnotify.Write == fsnotify.Write {
					// Debounce: wait a bit for atomic writes to complete
					time.Sleep(100 * time.Millisecond)
					return fileChangeMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Log error but continue watching
				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// reloadSheet loads the sheet in the background. Widths are fitted later in Update,
// which is the only place the shared worker pool is used.
func reloadSheet(path string, cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		sheet, err := grid.LoadFile(path, sheetDefaults(cfg))
		if err != nil {
			return sheetReloadedMsg{err: err}
		}

		return sheetReloadedMsg{sheet: sheet}
	}
}

func (m *model) rearmWatcher() tea.Cmd {
	if m.watcher == nil {
		return nil
	}

	return waitForFileChange(m.watcher, m.debugf)
}

// handleFileChange reloads the sheet unless the write was our own save
func (m *model) handleFileChange() tea.Cmd {
	if time.Since(m.ws.lastSave) < reloadQuietPeriod {
		m.debugf("[WATCHER] Ignoring change caused by our own save")
		return m.rearmWatcher()
	}

	m.debugf("[WATCHER] %s changed, reloading", m.csvPath)

	return reloadSheet(m.csvPath, m.cfg)
}

// handleReload swaps in a reloaded sheet. The new sheet has a new identity, so the
// tracker abandons any selection drag started on the old one.
func (m *model) handleReload(msg sheetReloadedMsg) tea.Cmd {
	ws := m.ws

	if msg.err != nil {
		m.debugf("[WATCHER] Reload failed: %v", msg.err)
		ws.setStatusMsg(fmt.Sprintf("Reload failed: %v", msg.err))

		return m.rearmWatcher()
	}

	if ws.drag != nil {
		ws.drag.helper.Cancel()
	}

	msg.sheet.AutoFitWidths(m.pool, m.cfg.Grid.MinColWidth, m.cfg.Grid.MaxColWidth)

	ws.view.SetSheet(msg.sheet)
	ws.tracker.SetActiveSheet(msg.sheet.ID)

	ws.selection = nil
	ws.undoMgr.Clear()
	ws.clampCursor()
	m.resize()

	ws.setStatusMsg("Reloaded " + msg.sheet.Name)

	return m.rearmWatcher()
}
