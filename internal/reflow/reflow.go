// Package reflow pads text with spaces so that words stay whole when the
// result is laid out in fixed-width display rows.
package reflow

import (
	"fmt"
	"strings"
)

// Policy selects how wrapping treats a word longer than one row.
type Policy int

const (
	// KeepLongWords leaves an oversized word in place; it will span rows.
	KeepLongWords Policy = iota
	// TruncateLongWords cuts an oversized word down to the row width.
	TruncateLongWords
	// ErrorOnLongWords rejects input containing an oversized word.
	ErrorOnLongWords
)

// ParsePolicy maps a policy name from config or flags onto a Policy.
// The empty string selects KeepLongWords.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "keep":
		return KeepLongWords, nil
	case "truncate":
		return TruncateLongWords, nil
	case "error":
		return ErrorOnLongWords, nil
	default:
		return KeepLongWords, fmt.Errorf("unknown long-word policy %q", name)
	}
}

func (p Policy) String() string {
	switch p {
	case TruncateLongWords:
		return "truncate"
	case ErrorOnLongWords:
		return "error"
	default:
		return "keep"
	}
}

// Options controls optional wrapping behavior.
type Options struct {
	Policy Policy
}

// WidthError reports a non-positive row width.
type WidthError struct {
	Width int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("line width must be at least 1, got %d", e.Width)
}

// WordTooLongError reports a word that cannot fit on a single row. It is
// returned only under ErrorOnLongWords.
type WordTooLongError struct {
	Word  string
	Width int
}

func (e *WordTooLongError) Error() string {
	return fmt.Sprintf("word %q does not fit row width %d", e.Word, e.Width)
}

// Wrap inserts space padding into text so that no word straddles a row
// boundary when the result is read in consecutive rows of width runes.
// Oversized words are kept in place (KeepLongWords).
func Wrap(text string, width int) (string, error) {
	return WrapWithOptions(text, width, Options{})
}

// WrapWithOptions is Wrap with an explicit oversized-word policy.
//
// The pass walks row boundaries left to right over a growing buffer: when a
// word straddles a boundary, the single space before the word is widened so
// the word begins exactly on the boundary. Later boundaries are evaluated
// against the already-padded text, so the output length feeds back into how
// many boundaries get processed. Only ASCII spaces separate words.
func WrapWithOptions(text string, width int, opts Options) (string, error) {
	if width <= 0 {
		return "", &WidthError{Width: width}
	}
	buf := []rune(text)
	for boundary := width; boundary < len(buf); {
		if buf[boundary] == ' ' {
			// The word before the boundary ends exactly at the row edge;
			// zero padding keeps the layout intact.
			boundary += width
			continue
		}
		spacePos := -1
		for i := boundary - 1; i >= 0; i-- {
			if buf[i] == ' ' {
				spacePos = i
				break
			}
		}
		wordStart := spacePos + 1
		wordEnd := boundary
		for wordEnd < len(buf) && buf[wordEnd] != ' ' {
			wordEnd++
		}
		if spacePos < 0 || wordEnd-wordStart > width {
			// Padding cannot make an oversized word fit one row.
			switch opts.Policy {
			case TruncateLongWords:
				buf = append(buf[:wordStart+width], buf[wordEnd:]...)
				continue
			case ErrorOnLongWords:
				return "", &WordTooLongError{Word: string(buf[wordStart:wordEnd]), Width: width}
			default:
				boundary += width
				continue
			}
		}
		pad := boundary - spacePos
		oldLen := len(buf)
		buf = append(buf, make([]rune, pad-1)...)
		copy(buf[spacePos+pad:], buf[spacePos+1:oldLen])
		for i := spacePos; i < spacePos+pad; i++ {
			buf[i] = ' '
		}
		boundary += width
	}
	return string(buf), nil
}

// SplitRows partitions wrapped text into rows of width runes. The final row
// may be shorter; a non-positive width yields nil.
func SplitRows(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	runes := []rune(text)
	rows := make([]string, 0, (len(runes)+width-1)/width)
	for start := 0; start < len(runes); start += width {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		rows = append(rows, string(runes[start:end]))
	}
	return rows
}

// Clip cuts text down to at most limit runes.
func Clip(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
