// Package runenv reads the METARBAR_* environment knobs that redirect
// where the process keeps its files and how it talks to the network.
// Tests and sandboxed runs set these to keep real user directories out
// of the picture.
package runenv

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RuntimeDirEnv   = "METARBAR_RUNTIME_DIR"
	DataDirEnv      = "METARBAR_DATA_DIR"
	ConfigDirEnv    = "METARBAR_CONFIG_DIR"
	FreshConfigEnv  = "METARBAR_FRESH_CONFIG"
	FetchTimeoutEnv = "METARBAR_FETCH_TIMEOUT"
)

// FreshConfigEnabled reports whether the run should ignore any stored
// state and start from built-in defaults.
func FreshConfigEnabled() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(FreshConfigEnv)))
	switch value {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// ConfigDir returns the config directory override, or "".
func ConfigDir() string {
	return strings.TrimSpace(os.Getenv(ConfigDirEnv))
}

// RuntimeDir returns the runtime directory override, or "".
func RuntimeDir() string {
	return strings.TrimSpace(os.Getenv(RuntimeDirEnv))
}

// DataDir returns the data directory override, or "".
func DataDir() string {
	return strings.TrimSpace(os.Getenv(DataDirEnv))
}

// FetchTimeout is the per-request deadline for weather fetches. The value
// accepts a Go duration or a bare number of seconds.
func FetchTimeout() time.Duration {
	const fallback = 15 * time.Second
	raw := strings.TrimSpace(os.Getenv(FetchTimeoutEnv))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		if d <= 0 {
			return fallback
		}
		return d
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
