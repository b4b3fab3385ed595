package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveWorkDir picks the effective working directory for a command:
// the per-call override wins, then the process-wide dependency value,
// then the current directory.
func ResolveWorkDir(ctx CommandContext) (string, error) {
	for _, candidate := range []string{ctx.WorkDir, ctx.Deps.WorkDir} {
		if strings.TrimSpace(candidate) != "" {
			return checkDir(candidate)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return checkDir(cwd)
}

// checkDir absolutizes the path and verifies it names a directory.
func checkDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", errors.New("empty working directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
