//go:build profiler
// +build profiler

package profiling

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	armOnce sync.Once
	armed   = make(chan struct{})
)

// Trigger opens the profile window. The first caller wins; the reason
// only feeds the log line.
func Trigger(reason string) {
	armOnce.Do(func() {
		close(armed)
		if strings.TrimSpace(reason) == "" {
			reason = "manual"
		}
		slog.Info("panel: profile window opened", slog.String("reason", reason))
	})
}

// Wait blocks until Trigger fires, timeout elapses (when positive), or
// ctx is done. It reports whether the trigger fired.
func Wait(ctx context.Context, timeout time.Duration) bool {
	select {
	case <-armed:
		return true
	default:
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case <-armed:
		return true
	case <-deadline:
		return false
	case <-ctx.Done():
		return false
	}
}
