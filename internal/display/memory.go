package display

import (
	"errors"
	"strings"

	"github.com/regenrek/metarbar/internal/limits"
	"github.com/regenrek/metarbar/internal/reflow"
)

// Memory is an in-memory device backing tests and plain-text output.
type Memory struct {
	cols  int
	rows  int
	lines []string
}

// NewMemory builds a blank in-memory display.
func NewMemory(cols, rows int) (*Memory, error) {
	cols, rows = limits.Normalize(cols, rows)
	if err := limits.ValidateMax(cols, rows); err != nil {
		return nil, err
	}
	m := &Memory{cols: cols, rows: rows}
	m.reset()
	return m, nil
}

func (m *Memory) reset() {
	blank := strings.Repeat(" ", m.cols)
	m.lines = make([]string, m.rows)
	for i := range m.lines {
		m.lines[i] = blank
	}
}

// Size implements Device.
func (m *Memory) Size() (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.cols, m.rows
}

// Clear implements Device.
func (m *Memory) Clear() error {
	if m == nil {
		return errors.New("display: nil device")
	}
	m.reset()
	return nil
}

// Print implements Device.
func (m *Memory) Print(text string, startLine int) error {
	if m == nil {
		return errors.New("display: nil device")
	}
	if startLine < 0 || startLine >= m.rows {
		return &RangeError{Line: startLine, Rows: m.rows}
	}
	for i, row := range reflow.SplitRows(text, m.cols) {
		y := startLine + i
		if y >= m.rows {
			break
		}
		m.lines[y] = padRow(row, m.cols)
	}
	return nil
}

// Rows returns a copy of the current display rows.
func (m *Memory) Rows() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.lines...)
}

// String joins the rows for plain-text output.
func (m *Memory) String() string {
	if m == nil {
		return ""
	}
	return strings.Join(m.lines, "\n")
}

func padRow(row string, cols int) string {
	if pad := cols - len([]rune(row)); pad > 0 {
		return row + strings.Repeat(" ", pad)
	}
	return row
}
