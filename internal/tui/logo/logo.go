// Package logo renders the MetarBar wordmark in a stylized ASCII form.
package logo

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

const (
	word          = "METARBAR"
	fullSpacing   = 2
	compactLabel  = "METAR BAR"
	fallbackWidth = 5
)

// Render returns the full MetarBar wordmark. Width truncates the output
// per line; set width <= 0 for no truncation.
func Render(width int, compact bool) string {
	spacing := fullSpacing
	if compact {
		spacing = 1
	}
	lines := renderWord(word, spacing)
	if width > 0 {
		for i, line := range lines {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// SmallRender returns a compact single-line logo.
func SmallRender(width int) string {
	line := compactLabel
	if width > 0 {
		line = ansi.Truncate(line, width, "")
	}
	return line
}

// FullWidth reports the width of the full wordmark.
func FullWidth() int {
	maxWidth := 0
	for _, line := range renderWord(word, fullSpacing) {
		if width := utf8.RuneCountInString(line); width > maxWidth {
			maxWidth = width
		}
	}
	return maxWidth
}

// FullHeight reports the height of the full wordmark.
func FullHeight() int {
	maxHeight := 0
	for _, form := range letterForms {
		if len(form) > maxHeight {
			maxHeight = len(form)
		}
	}
	return maxHeight
}

// letterform is one glyph, one string per row. Rows may be ragged; the
// row accessor pads on demand.
type letterform []string

func (f letterform) width() int {
	maxWidth := 0
	for _, line := range f {
		if width := utf8.RuneCountInString(line); width > maxWidth {
			maxWidth = width
		}
	}
	if maxWidth == 0 {
		return fallbackWidth
	}
	return maxWidth
}

// row returns line i padded out to the given width.
func (f letterform) row(i, width int) string {
	line := ""
	if i < len(f) {
		line = f[i]
	}
	if pad := width - utf8.RuneCountInString(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

func renderWord(text string, spacing int) []string {
	if spacing < 0 {
		spacing = 0
	}
	height := FullHeight()
	gap := strings.Repeat(" ", spacing)
	rows := make([]strings.Builder, height)
	for idx, r := range text {
		form, ok := letterForms[r]
		if !ok {
			form = fallbackLetter(r, height)
		}
		width := form.width()
		for i := range rows {
			if idx > 0 {
				rows[i].WriteString(gap)
			}
			rows[i].WriteString(form.row(i, width))
		}
	}
	lines := make([]string, height)
	for i := range rows {
		lines[i] = strings.TrimRight(rows[i].String(), " ")
	}
	return lines
}

// fallbackLetter centers an unknown rune in a blank cell so arbitrary
// text still lines up with the block glyphs.
func fallbackLetter(r rune, height int) letterform {
	if height <= 0 {
		return nil
	}
	blank := strings.Repeat(" ", fallbackWidth)
	out := make(letterform, height)
	for i := range out {
		out[i] = blank
	}
	out[height/2] = " " + string(r) + strings.Repeat(" ", fallbackWidth-2)
	return out
}

var letterForms = map[rune]letterform{
	'M': {
		"█   █",
		"██ ██",
		"█ █ █",
		"█   █",
		"█   █",
		"█   █",
		"█   █",
	},
	'E': {
		"█████",
		"█    ",
		"█    ",
		"████ ",
		"█    ",
		"█    ",
		"█████",
	},
	'T': {
		"█████",
		"  █  ",
		"  █  ",
		"  █  ",
		"  █  ",
		"  █  ",
		"  █  ",
	},
	'A': {
		" ███ ",
		"█   █",
		"█   █",
		"█████",
		"█   █",
		"█   █",
		"█   █",
	},
	'R': {
		"████ ",
		"█   █",
		"█   █",
		"████ ",
		"█ █  ",
		"█  █ ",
		"█   █",
	},
	'B': {
		"████ ",
		"█   █",
		"█   █",
		"████ ",
		"█   █",
		"█   █",
		"████ ",
	},
}
