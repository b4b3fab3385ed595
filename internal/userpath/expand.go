// Package userpath translates between ~-prefixed display paths and the
// absolute paths the rest of the code works with.
package userpath

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandUser resolves a leading ~ or ~/ against the current user's home
// directory. Other forms, including ~name, pass through untouched.
func ExpandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ShortenUser rewrites a path inside the home directory with a ~ prefix
// for display. The match is segment-aware: "/home/userx" stays untouched
// when home is "/home/user".
func ShortenUser(path string) string {
	if path == "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	sep := string(filepath.Separator)
	if rest, ok := strings.CutPrefix(path, home+sep); ok {
		return "~" + sep + rest
	}
	return path
}
