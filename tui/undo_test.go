// ABOUTME: Tests for UndoManager stack operations
// ABOUTME: Verifies undo/redo behavior, snapshot isolation and stack size limits

package tui

import (
	"strings"
	"testing"

	"gridshift/coords"
	"gridshift/grid"
)

func createTestState(t *testing.T, header string, cursorCol int) SheetState {
	t.Helper()

	s, err := grid.Load(strings.NewReader(header+"\n"), "undo.csv", grid.Defaults{})
	if err != nil {
		t.Fatal(err)
	}

	return SheetState{Sheet: s, CursorCol: cursorCol}
}

func headerOf(s SheetState) string {
	return strings.Join(s.Sheet.Cells[0], ",")
}

func TestUndoManager_PushAndUndo(t *testing.T) {
	um := NewUndoManager(50)

	um.Push(createTestState(t, "a,b,c", 0))

	restored, ok := um.Undo(createTestState(t, "b,a,c", 1))
	if !ok {
		t.Fatal("Undo should succeed")
	}

	if headerOf(restored) != "a,b,c" {
		t.Errorf("Undo restored %q, want a,b,c", headerOf(restored))
	}

	if restored.CursorCol != 0 {
		t.Errorf("Undo restored cursor to %d, want 0", restored.CursorCol)
	}
}

func TestUndoManager_UndoEmpty(t *testing.T) {
	um := NewUndoManager(50)

	if _, ok := um.Undo(createTestState(t, "a", 0)); ok {
		t.Error("Undo should fail on empty stack")
	}
}

func TestUndoManager_Redo(t *testing.T) {
	um := NewUndoManager(50)
	um.Push(createTestState(t, "a,b,c", 0))

	restored, ok := um.Undo(createTestState(t, "c,a,b", 2))
	if !ok {
		t.Fatal("Undo should succeed")
	}

	redone, ok := um.Redo(restored)
	if !ok {
		t.Fatal("Redo should succeed")
	}

	if headerOf(redone) != "c,a,b" || redone.CursorCol != 2 {
		t.Errorf("Redo restored %q cursor %d, want c,a,b cursor 2", headerOf(redone), redone.CursorCol)
	}
}

func TestUndoManager_RedoEmpty(t *testing.T) {
	um := NewUndoManager(50)

	if _, ok := um.Redo(createTestState(t, "a", 0)); ok {
		t.Error("Redo should fail on empty stack")
	}
}

func TestUndoManager_PushClearsRedo(t *testing.T) {
	um := NewUndoManager(50)
	um.Push(createTestState(t, "a,b", 0))
	um.Undo(createTestState(t, "b,a", 0))

	if um.RedoSize() != 1 {
		t.Fatalf("Redo stack should have 1 item, got %d", um.RedoSize())
	}

	um.Push(createTestState(t, "a", 0))

	if um.RedoSize() != 0 {
		t.Errorf("Push should clear redo stack, got %d items", um.RedoSize())
	}
}

func TestUndoManager_SnapshotsAreIsolated(t *testing.T) {
	um := NewUndoManager(50)
	live := createTestState(t, "a,b,c", 0)

	um.Push(live)

	// Editing the live sheet after pushing must not alter history
	if err := live.Sheet.MoveHeaders(coords.Horizontal, []int{0}, 3); err != nil {
		t.Fatal(err)
	}

	restored, _ := um.Undo(live)
	if headerOf(restored) != "a,b,c" {
		t.Errorf("History was mutated: got %q", headerOf(restored))
	}

	if err := live.Sheet.HideHeader(coords.Horizontal, 0); err != nil {
		t.Fatal(err)
	}

	redone, _ := um.Redo(restored)
	if redone.Sheet.Cols[0].Hidden {
		t.Error("Redo state should predate the later hide")
	}
}

func TestUndoManager_MaxSize(t *testing.T) {
	um := NewUndoManager(3)

	for _, h := range []string{"a", "b", "c", "d", "e"} {
		um.Push(createTestState(t, h, 0))
	}

	if um.UndoSize() != 3 {
		t.Fatalf("Undo stack should be capped at 3, got %d", um.UndoSize())
	}

	current := createTestState(t, "f", 0)
	for _, want := range []string{"e", "d", "c"} {
		restored, ok := um.Undo(current)
		if !ok {
			t.Fatalf("Undo to %s should succeed", want)
		}

		if headerOf(restored) != want {
			t.Errorf("Undo restored %q, want %q", headerOf(restored), want)
		}

		current = restored
	}

	if _, ok := um.Undo(current); ok {
		t.Error("Oldest states should have been evicted")
	}
}

func TestUndoManager_Clear(t *testing.T) {
	um := NewUndoManager(10)
	um.Push(createTestState(t, "a", 0))
	um.Undo(createTestState(t, "b", 0))

	um.Clear()

	if um.UndoSize() != 0 || um.RedoSize() != 0 {
		t.Errorf("Clear left undo=%d redo=%d", um.UndoSize(), um.RedoSize())
	}
}
