package screen

import "github.com/mattn/go-runewidth"

// SetText writes styled text into the frame starting at x,y.
// Runes that would overflow the row are dropped; wide runes that do not
// fit are dropped whole.
func (f *Frame) SetText(x, y int, text string, style Style) {
	if f == nil || f.Empty() || y < 0 || y >= f.Rows {
		return
	}
	for _, r := range text {
		if x >= f.Cols {
			return
		}
		width := runewidth.RuneWidth(r)
		if width <= 0 {
			width = 1
		}
		if x+width > f.Cols {
			return
		}
		if x >= 0 {
			f.Cells[y*f.Cols+x] = Cell{Content: string(r), Width: width, Style: style}
			for i := 1; i < width; i++ {
				f.Cells[y*f.Cols+x+i] = Cell{Width: 0, Style: style}
			}
		}
		x += width
	}
}

// FrameFromLines builds a frame from plain text lines.
// Lines are rendered top-to-bottom and truncated to the provided dimensions.
func FrameFromLines(cols, rows int, lines []string) Frame {
	frame := New(cols, rows)
	if frame.Empty() {
		return frame
	}
	maxLines := rows
	if len(lines) < maxLines {
		maxLines = len(lines)
	}
	for y := 0; y < maxLines; y++ {
		frame.SetText(0, y, lines[y], Style{})
	}
	return frame
}
