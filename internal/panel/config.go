// Package panel runs the fetch/reflow/render loop that keeps the display
// current.
package panel

import (
	"errors"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/awc"
	"github.com/regenrek/metarbar/internal/limits"
	"github.com/regenrek/metarbar/internal/metar"
	"github.com/regenrek/metarbar/internal/reflow"
)

// Default geometry mirrors the 16x2 character module the panel grew up on.
const (
	DefaultCols = 16
	DefaultRows = 2
)

// Config is the immutable panel configuration captured at start. Cycles
// read it by value; nothing mutates it after New.
type Config struct {
	Station     string
	Cols        int
	Rows        int
	Refresh     time.Duration
	Retry       time.Duration
	Policy      reflow.Policy
	StartMarker string
	EndMarker   string
}

// Normalize returns the config with defaults applied.
func (c Config) Normalize() Config {
	c.Station = strings.ToUpper(strings.TrimSpace(c.Station))
	if c.Cols <= 0 {
		c.Cols = DefaultCols
	}
	if c.Rows <= 0 {
		c.Rows = DefaultRows
	}
	c.Cols, c.Rows = limits.Clamp(c.Cols, c.Rows)
	if c.Refresh <= 0 {
		c.Refresh = awc.DefaultRefresh
	}
	if c.Retry <= 0 {
		c.Retry = awc.DefaultRetry
	}
	if c.StartMarker == "" {
		c.StartMarker = metar.DefaultStartMarker
	}
	if c.EndMarker == "" {
		c.EndMarker = metar.DefaultEndMarker
	}
	return c
}

// Validate checks the config for a single-station panel.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Station) == "" {
		return errors.New("panel: station is required")
	}
	return limits.ValidateMax(c.Cols, c.Rows)
}
