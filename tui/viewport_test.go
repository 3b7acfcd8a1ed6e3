// ABOUTME: Tests for ViewportManager scrolling logic
// ABOUTME: Verifies cursor-to-middle vim-style scrolling for rows and wide columns

package tui

import "testing"

func TestViewportManager_Phases(t *testing.T) {
	// 10 rows visible out of 50, each row one cell high.
	// Middle = 5, bottom threshold = 50 - 10 + 5 = 45, max offset = 40.
	tests := []struct {
		name       string
		cursor     float64
		wantOffset float64
		wantPhase  ScrollPhase
	}{
		{"cursor at 0", 0, 0, TopPhase},
		{"cursor just before middle", 4, 0, TopPhase},
		{"cursor at middle start", 5, 0, MiddlePhase},
		{"cursor at 10", 10, 5, MiddlePhase},
		{"cursor at 25", 25, 20, MiddlePhase},
		{"cursor just before bottom threshold", 44, 39, MiddlePhase},
		{"cursor at bottom threshold", 45, 40, BottomPhase},
		{"cursor at last row", 49, 40, BottomPhase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewViewportManager(10, tt.cursor, 1, 50)

			if offset := vm.CalculateOffset(); offset != tt.wantOffset {
				t.Errorf("CalculateOffset() = %.0f, want %.0f", offset, tt.wantOffset)
			}

			if phase := vm.GetPhase(); phase != tt.wantPhase {
				t.Errorf("GetPhase() = %v, want %v", phase, tt.wantPhase)
			}
		})
	}
}

func TestViewportManager_SmallPane(t *testing.T) {
	// Content smaller than the pane never scrolls
	for _, cursor := range []float64{0, 2, 4} {
		vm := NewViewportManager(10, cursor, 1, 5)

		if offset := vm.CalculateOffset(); offset != 0 {
			t.Errorf("cursor %.0f: CalculateOffset() = %.0f, want 0", cursor, offset)
		}
	}
}

func TestViewportManager_WideCursorStaysVisible(t *testing.T) {
	// 30-cell pane, middle 15; a 20-cell column starting at 40 would end at 60
	vm := NewViewportManager(30, 40, 20, 200)

	offset := vm.CalculateOffset()
	if offset != 30 {
		t.Errorf("CalculateOffset() = %.0f, want 30", offset)
	}

	if offset+30 < 60 {
		t.Error("Cursor end is not visible")
	}
}

func TestViewportManager_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		vm   *ViewportManager
	}{
		{"empty pane content", NewViewportManager(10, 0, 1, 0)},
		{"zero extent", NewViewportManager(0, 5, 1, 50)},
		{"single row", NewViewportManager(10, 0, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if offset := tt.vm.CalculateOffset(); offset != 0 {
				t.Errorf("CalculateOffset() = %.0f, want 0", offset)
			}
		})
	}
}

func TestViewportManager_ExtentChange(t *testing.T) {
	vm := NewViewportManager(10, 25, 1, 50)

	if offset := vm.CalculateOffset(); offset != 20 {
		t.Errorf("Initial offset = %.0f, want 20", offset)
	}

	vm.extent = 20

	// Middle now = 10, cursor at 25 should give offset 15
	if offset := vm.CalculateOffset(); offset != 15 {
		t.Errorf("After extent change, offset = %.0f, want 15", offset)
	}
}
