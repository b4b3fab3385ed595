//go:build !windows

package logging

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
)

var looseDirWarning sync.Once

// tightenLogDir brings a pre-existing log directory down to owner-only
// permissions. A group or world accessible directory gets chmodded to
// 0700 when we own it; a directory the user pointed us at explicitly is
// left alone with a warning.
func tightenLogDir(dir string, info os.FileInfo, isOverride bool) error {
	mode := info.Mode().Perm()
	if mode&0o077 == 0 {
		return nil
	}
	switch {
	case isOverride:
		warnLooseDir("log dir is group/world accessible; consider chmod 0700", dir, mode)
	case ownedByCurrentUser(info):
		if err := os.Chmod(dir, 0o700); err != nil {
			return fmt.Errorf("logging: chmod log dir: %w", err)
		}
	default:
		warnLooseDir("log dir is not owned by current user; permissions unchanged", dir, mode)
	}
	return nil
}

func warnLooseDir(msg, dir string, mode os.FileMode) {
	looseDirWarning.Do(func() {
		slog.Warn(msg, "path", dir, "mode", mode.String())
	})
}

func ownedByCurrentUser(info os.FileInfo) bool {
	stat, ok := info.Sys().(*syscall.Stat_t)
	return ok && stat.Uid == uint32(os.Getuid())
}
