package awc

import "time"

// Default fetch cadence. Observations refresh hourly upstream; the panel
// polls more often so a new report shows within minutes.
const (
	DefaultRefresh = 5 * time.Minute
	DefaultRetry   = 30 * time.Second
)

// Policy decides how long to wait before the next fetch cycle.
type Policy struct {
	Refresh time.Duration
	Retry   time.Duration
}

// NextAfter returns the refresh interval after a good cycle and the retry
// interval after a failed one. The retry interval never exceeds refresh.
func (p Policy) NextAfter(ok bool) time.Duration {
	refresh := p.Refresh
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	retry := p.Retry
	if retry <= 0 {
		retry = DefaultRetry
	}
	if retry > refresh {
		retry = refresh
	}
	if ok {
		return refresh
	}
	return retry
}
