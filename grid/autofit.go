// ABOUTME: Column auto-width measurement using display cell widths
// ABOUTME: Fans columns out over the worker pool and clamps results to configured limits

package grid

import (
	"github.com/mattn/go-runewidth"

	"gridshift/pool"
)

// AutoFitWidths sizes every column to its widest cell (or letter label) plus one
// cell of padding, clamped to [minWidth, maxWidth]
func (s *Sheet) AutoFitWidths(p *pool.WorkerPool, minWidth, maxWidth float64) {
	widths := pool.Map(p, len(s.Cols), func(col int) float64 {
		widest := runewidth.StringWidth(ColumnName(col))

		for _, row := range s.Cells {
			widest = max(widest, runewidth.StringWidth(row[col]))
		}

		return float64(widest + 1)
	})

	for i, w := range widths {
		s.Cols[i].Size = max(minWidth, min(w, maxWidth))
	}
}

// Fit pads or truncates text to exactly width display cells
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "")
	}

	return runewidth.FillRight(text, width)
}
