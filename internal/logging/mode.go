package logging

import "strings"

// Mode selects the logging posture: one-shot CLI commands stay quiet on
// stderr while the long-running panel writes structured JSON to a
// rotated file.
type Mode int

const (
	ModeCLI Mode = iota + 1
	ModePanel
)

// ModeFromArgs sniffs argv ahead of flag parsing so logging can be
// configured before the CLI runs. The panel is the default command, so
// a bare invocation and the station shorthand ("metarbar KSFO") both
// count as panel mode; anything else is a one-shot command.
func ModeFromArgs(args []string) Mode {
	if len(args) < 2 {
		return ModePanel
	}
	cmd := strings.ToLower(strings.TrimSpace(args[1]))
	switch {
	case cmd == "panel", strings.HasPrefix(cmd, "panel."):
		return ModePanel
	case len(args) == 2 && looksLikeStation(args[1]):
		return ModePanel
	}
	return ModeCLI
}

// looksLikeStation matches the uppercase ICAO-style tokens the station
// shorthand accepts, without dragging the command spec into this
// package. Lowercase tokens are left to the command parser.
func looksLikeStation(token string) bool {
	token = strings.TrimSpace(token)
	if len(token) < 3 || len(token) > 8 {
		return false
	}
	for i, r := range token {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (m Mode) String() string {
	if m == ModePanel {
		return "panel"
	}
	return "cli"
}
