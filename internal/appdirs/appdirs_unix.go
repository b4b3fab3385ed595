//go:build !windows

package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"log/slog"

	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/runenv"
)

var (
	runtimePermsWarnOnce sync.Once
	dataPermsWarnOnce    sync.Once
)

// RuntimeDir returns the directory used for runtime state (pid/logs),
// creating it with tight permissions when missing.
func RuntimeDir() (string, error) {
	if override := runenv.RuntimeDir(); override != "" {
		return ensureRuntimeDir(override, true)
	}
	dir, err := defaultRuntimeDir()
	if err != nil {
		return "", err
	}
	return ensureRuntimeDir(dir, false)
}

// RuntimeDirPath resolves the runtime directory without creating it.
func RuntimeDirPath() (string, error) {
	if override := runenv.RuntimeDir(); override != "" {
		return override, nil
	}
	return defaultRuntimeDir()
}

// DataDir returns the directory used for durable state (update-check state),
// creating it with tight permissions when missing.
func DataDir() (string, error) {
	if override := runenv.DataDir(); override != "" {
		return ensureDataDir(override, true)
	}
	dir, err := defaultDataDir()
	if err != nil {
		return "", err
	}
	return ensureDataDir(dir, false)
}

// DataDirPath resolves the data directory without creating it.
func DataDirPath() (string, error) {
	if override := runenv.DataDir(); override != "" {
		return override, nil
	}
	return defaultDataDir()
}

func defaultRuntimeDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, identity.AppSlug), nil
}

func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, identity.AppSlug), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", identity.AppSlug), nil
}

func ensureRuntimeDir(dir string, isOverride bool) (string, error) {
	return ensureDir(dir, isOverride, "runtime", &runtimePermsWarnOnce)
}

func ensureDataDir(dir string, isOverride bool) (string, error) {
	return ensureDir(dir, isOverride, "data", &dataPermsWarnOnce)
}

func ensureDir(dir string, isOverride bool, kind string, warnOnce *sync.Once) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%s dir is empty", kind)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat %s dir: %w", kind, err)
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("create %s dir: %w", kind, err)
		}
		return dir, nil
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s dir %q is not a directory", kind, dir)
	}
	mode := info.Mode().Perm()
	if mode&0o077 == 0 {
		return dir, nil
	}
	if isOverride {
		warnOnce.Do(func() {
			slog.Warn(kind+" dir is group/world accessible; consider chmod 0700", "path", dir, "mode", mode.String())
		})
		return dir, nil
	}
	if ownedByCurrentUser(info) {
		if err := os.Chmod(dir, 0o700); err != nil {
			return "", fmt.Errorf("chmod %s dir: %w", kind, err)
		}
		return dir, nil
	}
	warnOnce.Do(func() {
		slog.Warn(kind+" dir is not owned by current user; permissions unchanged", "path", dir, "mode", mode.String())
	})
	return dir, nil
}

func ownedByCurrentUser(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return stat.Uid == uint32(os.Getuid())
}
