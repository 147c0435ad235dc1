// Package audit writes the per-run review workbook. Every processed
// record lands as one row with its original text, canonical rewrite, and
// outcome; warning and error rows get distinct fills so a reviewer can
// scan for them.
package audit

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matsen/bibcheck/internal/validate"
)

// MaxColWidth caps column auto-width so pathological field values cannot
// stretch the sheet unreadably.
const MaxColWidth = 80

// minColWidth keeps near-empty columns at a usable width.
const minColWidth = 10

// Fill colors follow Excel's stock "bad" and "neutral" conditional formats.
const (
	errorFillColor   = "FFC7CE"
	warningFillColor = "FFEB9C"
)

var headers = []string{"Original", "Updated", "Record"}

// Sink accumulates audit rows and saves them as an xlsx workbook. A run
// owns its sink exclusively; rows are appended in input order.
type Sink struct {
	path         string
	file         *excelize.File
	sheet        string
	row          int
	widths       [3]float64
	errorStyle   int
	warningStyle int
}

// Open creates a sink at path. Any workbook left over from a prior run is
// deleted first: the audit log is a per-run artifact, not cumulative.
func Open(path string) (*Sink, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing prior audit log: %w", err)
	}

	f := excelize.NewFile()
	s := &Sink{
		path:  path,
		file:  f,
		sheet: f.GetSheetName(0),
		row:   1,
	}

	var err error
	s.errorStyle, err = f.NewStyle(fillStyle(errorFillColor))
	if err != nil {
		return nil, fmt.Errorf("creating error style: %w", err)
	}
	s.warningStyle, err = f.NewStyle(fillStyle(warningFillColor))
	if err != nil {
		return nil, fmt.Errorf("creating warning style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(s.sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
		s.grow(i, h)
	}

	return s, nil
}

func fillStyle(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	}
}

// Append adds one audit row. The row is flagged by the outcome prefix:
// error descriptions get the error fill, warnings the warning fill, and
// clean rows no fill at all.
func (s *Sink) Append(original, updated, outcome string) error {
	s.row++
	values := []string{original, updated, outcome}

	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, s.row)
		if err := s.file.SetCellValue(s.sheet, cell, v); err != nil {
			return fmt.Errorf("writing row %d: %w", s.row, err)
		}
		s.grow(i, v)
	}

	style := 0
	switch {
	case strings.HasPrefix(outcome, validate.ErrorMarker):
		style = s.errorStyle
	case strings.HasPrefix(outcome, validate.WarningMarker):
		style = s.warningStyle
	}
	if style != 0 {
		first, _ := excelize.CoordinatesToCellName(1, s.row)
		last, _ := excelize.CoordinatesToCellName(len(values), s.row)
		if err := s.file.SetCellStyle(s.sheet, first, last, style); err != nil {
			return fmt.Errorf("flagging row %d: %w", s.row, err)
		}
	}

	return s.applyWidths()
}

// Rows returns the number of appended records, excluding the header.
func (s *Sink) Rows() int {
	return s.row - 1
}

// Close saves the workbook to disk and releases it.
func (s *Sink) Close() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("saving audit log: %w", err)
	}
	return s.file.Close()
}

// grow widens a column to fit a value, bounded at MaxColWidth. Multiline
// values count their longest line only.
func (s *Sink) grow(col int, value string) {
	for _, line := range strings.Split(value, "\n") {
		if w := float64(len(line)) + 2; w > s.widths[col] {
			s.widths[col] = w
		}
	}
}

func (s *Sink) applyWidths() error {
	for i := range s.widths {
		w := s.widths[i]
		if w < minColWidth {
			w = minColWidth
		}
		if w > MaxColWidth {
			w = MaxColWidth
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := s.file.SetColWidth(s.sheet, name, name, w); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}
	return nil
}
