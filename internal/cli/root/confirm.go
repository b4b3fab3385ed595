package root

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptConfirm writes "<message> [y/N]: " and reads one line of input.
// Only y or yes (any case) count as approval. EOF before any input is
// an error so non-interactive runs fail loudly instead of silently
// declining.
func PromptConfirm(in io.Reader, out io.Writer, message string) (bool, error) {
	if out != nil {
		if _, err := fmt.Fprintf(out, "%s [y/N]: ", message); err != nil {
			return false, err
		}
	}
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, errors.New("confirmation prompt: no input")
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
