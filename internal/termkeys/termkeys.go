// Package termkeys classifies terminal key chords that the panel should
// treat as native copy shortcuts rather than app bindings.
package termkeys

import "strings"

type modifier uint8

const (
	modCtrl modifier = 1 << iota
	modAlt
	modShift
	modSuper // cmd, meta and super are one family
)

// IsCopyShortcutKey reports whether key names a copy chord (cmd+c,
// ctrl+shift+c, ctrl+insert and friends). Plain keys and alt-modified
// chords are not copy shortcuts.
func IsCopyShortcutKey(key string) bool {
	base, mods, ok := splitChord(key)
	if !ok {
		return false
	}
	switch base {
	case "c":
		// alt+c types a character on several layouts.
		return mods&modAlt == 0 && mods&(modCtrl|modSuper) != 0
	case "insert":
		// shift+insert pastes; only the bare ctrl chord copies.
		return mods == modCtrl
	}
	return false
}

func splitChord(key string) (base string, mods modifier, ok bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "+")
	if len(parts) < 2 {
		return "", 0, false
	}
	base = parts[len(parts)-1]
	for _, part := range parts[:len(parts)-1] {
		switch part {
		case "ctrl", "control":
			mods |= modCtrl
		case "alt", "option":
			mods |= modAlt
		case "shift":
			mods |= modShift
		case "cmd", "command", "meta", "super":
			mods |= modSuper
		}
	}
	return base, mods, base != ""
}
