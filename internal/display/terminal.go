package display

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/muesli/termenv"

	"github.com/regenrek/metarbar/internal/limits"
	"github.com/regenrek/metarbar/internal/reflow"
	"github.com/regenrek/metarbar/internal/screen"
	"github.com/regenrek/metarbar/internal/screenrender"
)

// Terminal renders the panel matrix into an ANSI terminal. Every Print
// redraws the full matrix from the home position.
type Terminal struct {
	out     io.Writer
	profile colorprofile.Profile
	cols    int
	rows    int
	lines   []string
}

// EnvProfile detects the terminal color profile from the environment.
func EnvProfile() colorprofile.Profile {
	switch termenv.EnvColorProfile() {
	case termenv.Ascii:
		return colorprofile.ASCII
	case termenv.ANSI:
		return colorprofile.ANSI
	case termenv.ANSI256:
		return colorprofile.ANSI256
	default:
		return colorprofile.TrueColor
	}
}

// NewTerminal builds a terminal display writing to out.
func NewTerminal(out io.Writer, cols, rows int) (*Terminal, error) {
	if out == nil {
		return nil, errors.New("display: terminal writer is nil")
	}
	cols, rows = limits.Normalize(cols, rows)
	if err := limits.ValidateMax(cols, rows); err != nil {
		return nil, err
	}
	t := &Terminal{out: out, profile: EnvProfile(), cols: cols, rows: rows}
	t.reset()
	return t, nil
}

// SetProfile overrides the detected color profile.
func (t *Terminal) SetProfile(profile colorprofile.Profile) {
	if t != nil {
		t.profile = profile
	}
}

func (t *Terminal) reset() {
	blank := strings.Repeat(" ", t.cols)
	t.lines = make([]string, t.rows)
	for i := range t.lines {
		t.lines[i] = blank
	}
}

// Size implements Device.
func (t *Terminal) Size() (int, int) {
	if t == nil {
		return 0, 0
	}
	return t.cols, t.rows
}

// Clear implements Device.
func (t *Terminal) Clear() error {
	if t == nil {
		return errors.New("display: nil device")
	}
	t.reset()
	if _, err := io.WriteString(t.out, "\x1b[2J\x1b[H"); err != nil {
		return fmt.Errorf("display clear: %w", err)
	}
	return nil
}

// Print implements Device.
func (t *Terminal) Print(text string, startLine int) error {
	if t == nil {
		return errors.New("display: nil device")
	}
	if startLine < 0 || startLine >= t.rows {
		return &RangeError{Line: startLine, Rows: t.rows}
	}
	for i, row := range reflow.SplitRows(text, t.cols) {
		y := startLine + i
		if y >= t.rows {
			break
		}
		t.lines[y] = padRow(row, t.cols)
	}
	return t.flush()
}

func (t *Terminal) flush() error {
	frame := screen.FrameFromLines(t.cols, t.rows, t.lines)
	rendered := screenrender.Render(frame, screenrender.Options{Profile: t.profile})
	if _, err := fmt.Fprintf(t.out, "\x1b[H%s", rendered); err != nil {
		return fmt.Errorf("display flush: %w", err)
	}
	return nil
}

// HideCursor hides the terminal cursor while the panel runs.
func (t *Terminal) HideCursor() {
	if t != nil {
		_, _ = io.WriteString(t.out, "\x1b[?25l")
	}
}

// ShowCursor restores the terminal cursor.
func (t *Terminal) ShowCursor() {
	if t != nil {
		_, _ = io.WriteString(t.out, "\x1b[?25h")
	}
}
