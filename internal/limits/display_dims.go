package limits

import "fmt"

const (
	DisplayMaxCols = 512
	DisplayMaxRows = 128
)

type DimensionError struct {
	Cols, Rows       int
	MaxCols, MaxRows int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("display %dx%d exceeds max %dx%d", e.Cols, e.Rows, e.MaxCols, e.MaxRows)
}

func Normalize(cols, rows int) (int, int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func Clamp(cols, rows int) (int, int) {
	cols, rows = Normalize(cols, rows)
	if cols > DisplayMaxCols {
		cols = DisplayMaxCols
	}
	if rows > DisplayMaxRows {
		rows = DisplayMaxRows
	}
	return cols, rows
}

func ValidateMax(cols, rows int) error {
	cols, rows = Normalize(cols, rows)
	if cols > DisplayMaxCols || rows > DisplayMaxRows {
		return &DimensionError{Cols: cols, Rows: rows, MaxCols: DisplayMaxCols, MaxRows: DisplayMaxRows}
	}
	return nil
}
