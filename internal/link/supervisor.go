package link

import (
	"context"
	"log/slog"
	"time"
)

// Reconnect defaults; association needs a settle delay before re-checking.
const (
	DefaultDelay       = 2 * time.Second
	DefaultMaxAttempts = 5
)

// Supervisor checks the link and reconnects it when it is down.
type Supervisor struct {
	Checker     Checker
	Connector   Connector
	Delay       time.Duration
	MaxAttempts int
}

// Ensure returns once the link is up. Each attempt connects, waits for the
// link to settle, then re-checks. A *DownError is returned when the attempt
// budget runs out.
func (s Supervisor) Ensure(ctx context.Context) error {
	checker := s.Checker
	if checker == nil {
		checker = NopChecker{}
	}
	connector := s.Connector
	if connector == nil {
		connector = NopConnector{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := checker.Check(ctx)
	if err == nil {
		return nil
	}
	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		slog.Warn("link down; reconnecting", "attempt", attempt, "err", err)
		cerr := connector.Connect(ctx)
		if cerr != nil {
			err = cerr
		}
		if serr := sleepWithContext(ctx, delay); serr != nil {
			return serr
		}
		if cerr == nil {
			if err = checker.Check(ctx); err == nil {
				return nil
			}
		}
	}
	return &DownError{Attempts: maxAttempts, Last: err}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
