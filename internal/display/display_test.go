package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/colorprofile"

	"github.com/regenrek/metarbar/internal/limits"
)

func TestMemoryPrintLaysRows(t *testing.T) {
	dev, err := NewMemory(4, 3)
	if err != nil {
		t.Fatalf("NewMemory() err=%v", err)
	}
	if cols, rows := dev.Size(); cols != 4 || rows != 3 {
		t.Fatalf("Size() = %dx%d", cols, rows)
	}
	if err := dev.Print("AA  BBBB CC", 0); err != nil {
		t.Fatalf("Print() err=%v", err)
	}
	rows := dev.Rows()
	want := []string{"AA  ", "BBBB", " CC "}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows = %q, want %q", rows, want)
		}
	}
}

func TestMemoryPrintOffsetAndClip(t *testing.T) {
	dev, err := NewMemory(4, 3)
	if err != nil {
		t.Fatalf("NewMemory() err=%v", err)
	}
	if err := dev.Print("XX", 2); err != nil {
		t.Fatalf("Print() err=%v", err)
	}
	rows := dev.Rows()
	if rows[2] != "XX  " {
		t.Fatalf("rows = %q", rows)
	}
	if err := dev.Print("AAAABBBBCCCC", 1); err != nil {
		t.Fatalf("Print() err=%v", err)
	}
	rows = dev.Rows()
	if rows[1] != "AAAA" || rows[2] != "BBBB" {
		t.Fatalf("rows = %q, want clip at last row", rows)
	}
}

func TestMemoryPrintOutOfRange(t *testing.T) {
	dev, err := NewMemory(4, 2)
	if err != nil {
		t.Fatalf("NewMemory() err=%v", err)
	}
	var rangeErr *RangeError
	if err := dev.Print("X", -1); !errors.As(err, &rangeErr) {
		t.Fatalf("err=%v, want *RangeError", err)
	}
	if err := dev.Print("X", 2); !errors.As(err, &rangeErr) {
		t.Fatalf("err=%v, want *RangeError", err)
	}
	if rangeErr.Line != 2 || rangeErr.Rows != 2 {
		t.Fatalf("RangeError = %+v", rangeErr)
	}
}

func TestMemoryClear(t *testing.T) {
	dev, err := NewMemory(3, 2)
	if err != nil {
		t.Fatalf("NewMemory() err=%v", err)
	}
	if err := dev.Print("ABC", 0); err != nil {
		t.Fatalf("Print() err=%v", err)
	}
	if err := dev.Clear(); err != nil {
		t.Fatalf("Clear() err=%v", err)
	}
	for _, row := range dev.Rows() {
		if row != "   " {
			t.Fatalf("rows = %q, want blank", dev.Rows())
		}
	}
}

func TestNewMemoryValidatesDims(t *testing.T) {
	var dimErr *limits.DimensionError
	if _, err := NewMemory(limits.DisplayMaxCols+1, 2); !errors.As(err, &dimErr) {
		t.Fatalf("err=%v, want *DimensionError", err)
	}
	dev, err := NewMemory(0, 0)
	if err != nil {
		t.Fatalf("NewMemory(0,0) err=%v", err)
	}
	if cols, rows := dev.Size(); cols != 1 || rows != 1 {
		t.Fatalf("Size() = %dx%d, want 1x1", cols, rows)
	}
}

func TestTerminalPrintWritesANSI(t *testing.T) {
	var out bytes.Buffer
	dev, err := NewTerminal(&out, 4, 2)
	if err != nil {
		t.Fatalf("NewTerminal() err=%v", err)
	}
	dev.SetProfile(colorprofile.TrueColor)
	if err := dev.Clear(); err != nil {
		t.Fatalf("Clear() err=%v", err)
	}
	if !strings.Contains(out.String(), "\x1b[2J") {
		t.Fatalf("Clear output = %q", out.String())
	}
	out.Reset()
	if err := dev.Print("AB", 0); err != nil {
		t.Fatalf("Print() err=%v", err)
	}
	if !strings.HasPrefix(out.String(), "\x1b[H") {
		t.Fatalf("Print output = %q, want home prefix", out.String())
	}
	if !strings.Contains(out.String(), "AB") {
		t.Fatalf("Print output = %q", out.String())
	}
}

func TestTerminalPrintOutOfRange(t *testing.T) {
	var out bytes.Buffer
	dev, err := NewTerminal(&out, 4, 2)
	if err != nil {
		t.Fatalf("NewTerminal() err=%v", err)
	}
	var rangeErr *RangeError
	if err := dev.Print("X", 5); !errors.As(err, &rangeErr) {
		t.Fatalf("err=%v, want *RangeError", err)
	}
}

func TestTerminalCursorToggle(t *testing.T) {
	var out bytes.Buffer
	dev, err := NewTerminal(&out, 4, 2)
	if err != nil {
		t.Fatalf("NewTerminal() err=%v", err)
	}
	dev.HideCursor()
	dev.ShowCursor()
	if !strings.Contains(out.String(), "\x1b[?25l") || !strings.Contains(out.String(), "\x1b[?25h") {
		t.Fatalf("cursor output = %q", out.String())
	}
}

func TestNewTerminalNilWriter(t *testing.T) {
	if _, err := NewTerminal(nil, 4, 2); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}
