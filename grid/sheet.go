// ABOUTME: Spreadsheet data model: cell matrix plus sized, hideable column and row headers
// ABOUTME: Loads and saves CSV and applies header moves to both headers and cell data

// Package grid holds the sheet model and the viewport geometry the drag engine queries.
package grid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"gridshift/coords"
)

var (
	// ErrEmptySheet is returned when a CSV has no cells
	ErrEmptySheet = errors.New("sheet has no cells")
	// ErrIndexOutOfRange is returned for header indices outside the sheet
	ErrIndexOutOfRange = errors.New("header index out of range")
)

var sheetSeq atomic.Uint64

// Header is one column or row. Size is in terminal cells.
type Header struct {
	Size   float64
	Hidden bool
}

// Sheet is a rectangular table of cells. Cells is indexed [row][col].
type Sheet struct {
	ID    string
	Name  string
	Cells [][]string
	Cols  []Header
	Rows  []Header
}

// Defaults sizes headers of a freshly loaded sheet
type Defaults struct {
	ColWidth  float64
	RowHeight float64
}

// Load parses CSV from r. Short records are padded so the sheet is rectangular.
// Every load gets a fresh ID, so reloading the same file yields a different sheet.
func Load(r io.Reader, name string, d Defaults) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}

	if len(records) == 0 || width == 0 {
		return nil, ErrEmptySheet
	}

	for i, rec := range records {
		if len(rec) < width {
			records[i] = append(rec, make([]string, width-len(rec))...)
		}
	}

	colWidth := d.ColWidth
	if colWidth <= 0 {
		colWidth = 10
	}

	rowHeight := d.RowHeight
	if rowHeight <= 0 {
		rowHeight = 1
	}

	s := &Sheet{
		ID:    fmt.Sprintf("%s#%d", name, sheetSeq.Add(1)),
		Name:  name,
		Cells: records,
		Cols:  make([]Header, width),
		Rows:  make([]Header, len(records)),
	}

	for i := range s.Cols {
		s.Cols[i].Size = colWidth
	}

	for i := range s.Rows {
		s.Rows[i].Size = rowHeight
	}

	return s, nil
}

// LoadFile loads a CSV file, naming the sheet after the file
func LoadFile(path string, d Defaults) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Load(f, filepath.Base(path), d)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return s, nil
}

// SaveFile writes the cells in their current order. Hidden headers are still written.
func (s *Sheet) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := s.Write(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}

// Write encodes the cells as CSV
func (s *Sheet) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(s.Cells); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	return nil
}

// Clone returns a deep copy sharing the same ID
func (s *Sheet) Clone() *Sheet {
	c := &Sheet{
		ID:    s.ID,
		Name:  s.Name,
		Cells: make([][]string, len(s.Cells)),
		Cols:  append([]Header(nil), s.Cols...),
		Rows:  append([]Header(nil), s.Rows...),
	}

	for i, row := range s.Cells {
		c.Cells[i] = append([]string(nil), row...)
	}

	return c
}

// Headers returns the header slice for axis
func (s *Sheet) Headers(axis coords.Axis) []Header {
	if axis == coords.Vertical {
		return s.Rows
	}

	return s.Cols
}

// Cell returns the value at (col, row), or "" outside the sheet
func (s *Sheet) Cell(col, row int) string {
	if row < 0 || row >= len(s.Cells) || col < 0 || col >= len(s.Cells[row]) {
		return ""
	}

	return s.Cells[row][col]
}

// MoveHeaders moves the headers at from (with their cells) so they sit, in order,
// before the header currently at index to. to == count appends them at the end.
func (s *Sheet) MoveHeaders(axis coords.Axis, from []int, to int) error {
	headers := s.Headers(axis)
	n := len(headers)

	if len(from) == 0 {
		return nil
	}

	if to < 0 || to > n {
		return fmt.Errorf("%w: move target %d of %d", ErrIndexOutOfRange, to, n)
	}

	moving := append([]int(nil), from...)
	sort.Ints(moving)

	selected := make(map[int]bool, len(moving))
	for i, idx := range moving {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: header %d of %d", ErrIndexOutOfRange, idx, n)
		}

		if i > 0 && moving[i-1] == idx {
			return fmt.Errorf("%w: header %d listed twice", ErrIndexOutOfRange, idx)
		}

		selected[idx] = true
	}

	perm := make([]int, 0, n)

	for i := 0; i <= n; i++ {
		if i == to {
			perm = append(perm, moving...)
		}

		if i < n && !selected[i] {
			perm = append(perm, i)
		}
	}

	s.permute(axis, perm)

	return nil
}

// permute reorders axis so that new index i holds what was at perm[i]
func (s *Sheet) permute(axis coords.Axis, perm []int) {
	if axis == coords.Vertical {
		rows := make([]Header, len(perm))
		cells := make([][]string, len(perm))

		for i, p := range perm {
			rows[i] = s.Rows[p]
			cells[i] = s.Cells[p]
		}

		s.Rows = rows
		s.Cells = cells

		return
	}

	cols := make([]Header, len(perm))
	for i, p := range perm {
		cols[i] = s.Cols[p]
	}

	s.Cols = cols

	for r, row := range s.Cells {
		next := make([]string, len(perm))
		for i, p := range perm {
			next[i] = row[p]
		}

		s.Cells[r] = next
	}
}

// HideHeader hides one column or row
func (s *Sheet) HideHeader(axis coords.Axis, index int) error {
	headers := s.Headers(axis)
	if index < 0 || index >= len(headers) {
		return fmt.Errorf("%w: header %d of %d", ErrIndexOutOfRange, index, len(headers))
	}

	headers[index].Hidden = true

	return nil
}

// UnhideAll shows every header on axis and returns how many were hidden
func (s *Sheet) UnhideAll(axis coords.Axis) int {
	headers := s.Headers(axis)
	n := 0

	for i := range headers {
		if headers[i].Hidden {
			headers[i].Hidden = false
			n++
		}
	}

	return n
}

// ColumnName returns the spreadsheet letter label for a column index (0 -> A, 26 -> AA)
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}

	var b strings.Builder

	var letters []byte
	for index >= 0 {
		letters = append(letters, byte('A'+index%26))
		index = index/26 - 1
	}

	for i := len(letters) - 1; i >= 0; i-- {
		b.WriteByte(letters[i])
	}

	return b.String()
}
