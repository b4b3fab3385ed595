package logging

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// throttle remembers when each key last logged so noisy call sites can
// cap their output. The key table itself is capped; on overflow the
// stalest entries are dropped.
type throttle struct {
	mu   sync.Mutex
	seen map[string]time.Time
	max  int
}

func newThrottle(max int) *throttle {
	return &throttle{seen: make(map[string]time.Time), max: max}
}

// allow reports whether the key may log now, recording the timestamp
// when it does.
func (t *throttle) allow(key string, interval time.Duration, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.seen[key]; ok && now.Sub(last) < interval {
		return false
	}
	t.seen[key] = now
	if len(t.seen) > t.max {
		t.dropStalest(len(t.seen) - t.max)
	}
	return true
}

// dropStalest runs with t.mu held.
func (t *throttle) dropStalest(n int) {
	type stamp struct {
		key string
		at  time.Time
	}
	stamps := make([]stamp, 0, len(t.seen))
	for key, at := range t.seen {
		stamps = append(stamps, stamp{key: key, at: at})
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].at.Before(stamps[j].at) })
	for i := 0; i < n && i < len(stamps); i++ {
		delete(t.seen, stamps[i].key)
	}
}

var suppressed = newThrottle(1024)

// LogEvery logs msg at most once per interval for the given key. A
// blank key or non-positive interval logs unconditionally.
func LogEvery(ctx context.Context, key string, interval time.Duration, level slog.Level, msg string, attrs ...slog.Attr) {
	if !slog.Default().Enabled(ctx, level) {
		return
	}
	if key != "" && interval > 0 && !suppressed.allow(key, interval, time.Now()) {
		return
	}
	slog.LogAttrs(ctx, level, msg, attrs...)
}
