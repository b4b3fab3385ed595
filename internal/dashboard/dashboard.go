// Package dashboard loads multi-station panel layouts from KDL files.
package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/regenrek/metarbar/internal/limits"
)

// Slot is one station's share of the panel.
type Slot struct {
	Station string
	Lines   int
	Title   string
	Start   int
}

// Layout describes the panel geometry and its station slots.
type Layout struct {
	Cols  int
	Rows  int
	Slots []Slot
}

// Single wraps one station in a full-panel layout.
func Single(station string, cols, rows int) *Layout {
	return &Layout{
		Cols:  cols,
		Rows:  rows,
		Slots: []Slot{{Station: strings.ToUpper(strings.TrimSpace(station)), Lines: rows}},
	}
}

// Stack splits the panel evenly across the given stations, top to bottom.
func Stack(stations []string, cols, rows int) (*Layout, error) {
	layout := &Layout{Cols: cols, Rows: rows}
	for _, station := range stations {
		station = strings.ToUpper(strings.TrimSpace(station))
		if station == "" {
			continue
		}
		layout.Slots = append(layout.Slots, Slot{Station: station})
	}
	if err := layout.normalize(); err != nil {
		return nil, err
	}
	return layout, nil
}

// Load reads and parses a layout file.
func Load(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dashboard %q: %w", path, err)
	}
	layout, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("dashboard %q: %w", path, err)
	}
	return layout, nil
}

// Parse reads a KDL layout document and validates it.
func Parse(r io.Reader) (*Layout, error) {
	doc, err := kdl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse kdl: %w", err)
	}
	panelNode := findNode(doc, "panel")
	if panelNode == nil {
		return nil, errors.New("missing panel block")
	}
	layout := &Layout{}
	for _, child := range panelNode.Children {
		if child == nil || child.Name == nil {
			continue
		}
		switch child.Name.ValueString() {
		case "width":
			if layout.Cols, err = intArg(child); err != nil {
				return nil, err
			}
		case "rows":
			if layout.Rows, err = intArg(child); err != nil {
				return nil, err
			}
		case "station":
			slot, err := parseSlot(child)
			if err != nil {
				return nil, err
			}
			layout.Slots = append(layout.Slots, slot)
		}
	}
	if err := layout.normalize(); err != nil {
		return nil, err
	}
	return layout, nil
}

func parseSlot(node *document.Node) (Slot, error) {
	if len(node.Arguments) == 0 {
		return Slot{}, errors.New("station needs an identifier")
	}
	slot := Slot{Station: strings.ToUpper(strings.TrimSpace(node.Arguments[0].ValueString()))}
	if slot.Station == "" {
		return Slot{}, errors.New("station identifier is empty")
	}
	for _, child := range node.Children {
		if child == nil || child.Name == nil {
			continue
		}
		switch child.Name.ValueString() {
		case "lines":
			lines, err := intArg(child)
			if err != nil {
				return Slot{}, fmt.Errorf("station %s: %w", slot.Station, err)
			}
			slot.Lines = lines
		case "title":
			if len(child.Arguments) > 0 {
				slot.Title = strings.TrimSpace(child.Arguments[0].ValueString())
			}
		}
	}
	return slot, nil
}

// normalize assigns lines to open slots and computes start rows.
func (l *Layout) normalize() error {
	if l.Cols <= 0 {
		return errors.New("width must be positive")
	}
	if l.Rows <= 0 {
		return errors.New("rows must be positive")
	}
	if err := limits.ValidateMax(l.Cols, l.Rows); err != nil {
		return err
	}
	if len(l.Slots) == 0 {
		return errors.New("no stations configured")
	}
	fixed := 0
	open := 0
	for _, slot := range l.Slots {
		if slot.Lines > 0 {
			fixed += slot.Lines
		} else {
			open++
		}
	}
	if open > 0 {
		remaining := l.Rows - fixed
		if remaining < open {
			return fmt.Errorf("%d rows left for %d stations without lines", remaining, open)
		}
		share := remaining / open
		extra := remaining % open
		for i := range l.Slots {
			if l.Slots[i].Lines > 0 {
				continue
			}
			l.Slots[i].Lines = share
			if extra > 0 {
				l.Slots[i].Lines++
				extra--
			}
		}
	}
	total := 0
	for i := range l.Slots {
		l.Slots[i].Start = total
		total += l.Slots[i].Lines
	}
	if total > l.Rows {
		return fmt.Errorf("station lines total %d exceeds %d rows", total, l.Rows)
	}
	return nil
}

func findNode(doc *document.Document, name string) *document.Node {
	for _, node := range doc.Nodes {
		if node != nil && node.Name != nil && node.Name.ValueString() == name {
			return node
		}
	}
	return nil
}

func intArg(node *document.Node) (int, error) {
	name := node.Name.ValueString()
	if len(node.Arguments) == 0 {
		return 0, fmt.Errorf("%s needs a value", name)
	}
	value, err := strconv.Atoi(strings.TrimSpace(node.Arguments[0].ValueString()))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}
