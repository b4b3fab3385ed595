package update

import "time"

// DefaultCheckInterval is how often the panel looks for a newer release.
const DefaultCheckInterval = 24 * time.Hour

// Policy decides when background release checks run and when the result
// is worth surfacing.
type Policy struct {
	CheckInterval time.Duration
}

// DefaultPolicy returns the stock check cadence.
func DefaultPolicy() Policy {
	return Policy{CheckInterval: DefaultCheckInterval}
}

// ShouldCheck reports whether enough time has passed since the last
// recorded check.
func (p Policy) ShouldCheck(lastCheckUnixMs int64, now time.Time) bool {
	if lastCheckUnixMs <= 0 {
		return true
	}
	interval := p.CheckInterval
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return now.Sub(time.UnixMilli(lastCheckUnixMs)) >= interval
}

// ShouldShowBanner reports whether the panel footer should advertise
// the latest version.
func (p Policy) ShouldShowBanner(state State) bool {
	return state.UpdateAvailable() && !state.IsSkipped()
}
