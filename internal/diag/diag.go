// Package diag is the opt-in event tap for debugging live panels:
// setting METARBAR_DEBUG_EVENTS turns on free-form cycle traces, and
// METARBAR_DEBUG_EVENTS_LOG redirects them from stderr to a file. It is
// separate from the structured slog pipeline so a wedged panel can be
// inspected without touching the logging config.
package diag

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	enabled = strings.TrimSpace(os.Getenv("METARBAR_DEBUG_EVENTS")) != ""
	logPath = strings.TrimSpace(os.Getenv("METARBAR_DEBUG_EVENTS_LOG"))

	// The sink is opened on first use so a disabled tap never touches
	// the filesystem.
	sink = sync.OnceValue(openSink)

	events = &gate{last: map[string]time.Time{}}
)

// Enabled reports whether the event tap is on.
func Enabled() bool {
	return enabled
}

// Logf emits one trace line when the tap is on.
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	sink().Printf(format, args...)
}

// LogEvery emits at most one trace per key and interval, so per-cycle
// call sites stay readable at second-scale refresh rates.
func LogEvery(key string, interval time.Duration, format string, args ...any) {
	if !enabled {
		return
	}
	if interval > 0 && !events.pass(key, interval) {
		return
	}
	sink().Printf(format, args...)
}

// gate tracks the last emission per key.
type gate struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func (g *gate) pass(key string, interval time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if prev, seen := g.last[key]; seen && now.Sub(prev) < interval {
		return false
	}
	g.last[key] = now
	return true
}

func openSink() *log.Logger {
	if logPath != "" {
		if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
			return log.New(file, "", log.LstdFlags)
		}
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}
