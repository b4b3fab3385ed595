// Package display abstracts the fixed-width character matrix the panel
// draws to.
package display

import "fmt"

// Device is a fixed-size character display. Print lays text into
// width-sized rows starting at startLine and clips at the last row.
type Device interface {
	Size() (cols, rows int)
	Clear() error
	Print(text string, startLine int) error
}

// RangeError reports a print outside the device's rows.
type RangeError struct {
	Line int
	Rows int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("display line %d out of range (0..%d)", e.Line, e.Rows-1)
}
