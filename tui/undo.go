// ABOUTME: Undo/redo stack manager for sheet edits
// ABOUTME: Manages sheet snapshots with maximum stack size limit

package tui

import "gridshift/grid"

// SheetState captures a snapshot of the sheet for undo/redo
type SheetState struct {
	Sheet     *grid.Sheet
	CursorCol int
	CursorRow int
	XSplit    int
	YSplit    int
}

// clone deep-copies the sheet so later edits cannot reach into history
func (s SheetState) clone() SheetState {
	if s.Sheet != nil {
		s.Sheet = s.Sheet.Clone()
	}

	return s
}

// UndoManager manages undo/redo stacks with maximum size limit
type UndoManager struct {
	undoStack []SheetState
	redoStack []SheetState
	maxSize   int
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager(maxSize int) *UndoManager {
	return &UndoManager{
		undoStack: []SheetState{},
		redoStack: []SheetState{},
		maxSize:   max(maxSize, 1),
	}
}

// Push saves a new state to the undo stack
// Clears the redo stack (you can't redo after a new action)
func (um *UndoManager) Push(state SheetState) {
	um.undoStack = append(um.undoStack, state.clone())

	if len(um.undoStack) > um.maxSize {
		um.undoStack = um.undoStack[1:]
	}

	um.redoStack = []SheetState{}
}

// Undo restores the previous state
// Returns the state and true if undo was successful, or zero value and false if nothing to undo
func (um *UndoManager) Undo(currentState SheetState) (SheetState, bool) {
	if len(um.undoStack) == 0 {
		return SheetState{}, false
	}

	um.redoStack = append(um.redoStack, currentState.clone())

	if len(um.redoStack) > um.maxSize {
		um.redoStack = um.redoStack[1:]
	}

	state := um.undoStack[len(um.undoStack)-1]
	um.undoStack = um.undoStack[:len(um.undoStack)-1]

	return state, true
}

// Redo restores the next state
// Returns the state and true if redo was successful, or zero value and false if nothing to redo
func (um *UndoManager) Redo(currentState SheetState) (SheetState, bool) {
	if len(um.redoStack) == 0 {
		return SheetState{}, false
	}

	um.undoStack = append(um.undoStack, currentState.clone())

	if len(um.undoStack) > um.maxSize {
		um.undoStack = um.undoStack[1:]
	}

	state := um.redoStack[len(um.redoStack)-1]
	um.redoStack = um.redoStack[:len(um.redoStack)-1]

	return state, true
}

// UndoSize returns the number of items in the undo stack
func (um *UndoManager) UndoSize() int {
	return len(um.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (um *UndoManager) RedoSize() int {
	return len(um.redoStack)
}

// Clear clears both stacks
func (um *UndoManager) Clear() {
	um.undoStack = []SheetState{}
	um.redoStack = []SheetState{}
}
