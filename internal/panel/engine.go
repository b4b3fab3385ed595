package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/awc"
	"github.com/regenrek/metarbar/internal/dashboard"
	"github.com/regenrek/metarbar/internal/diag"
	"github.com/regenrek/metarbar/internal/display"
	"github.com/regenrek/metarbar/internal/link"
	"github.com/regenrek/metarbar/internal/logging"
	"github.com/regenrek/metarbar/internal/metar"
	"github.com/regenrek/metarbar/internal/profiling"
	"github.com/regenrek/metarbar/internal/reflow"
)

// fallbackText fills a slot that has never produced a report.
const fallbackText = "no data"

// CycleResult records the outcome of one slot in one cycle.
type CycleResult struct {
	Station string
	Report  *metar.Report
	Stale   bool
	Err     error
}

// Options carries the engine collaborators. Zero-value fields fall back to
// production defaults except Device, which is required.
type Options struct {
	Source     awc.Source
	Device     display.Device
	Supervisor link.Supervisor
	Layout     *dashboard.Layout
	OnCycle    func([]CycleResult)
}

// Engine drives fetch/reflow/render cycles over a slot layout.
type Engine struct {
	cfg     Config
	layout  *dashboard.Layout
	source  awc.Source
	device  display.Device
	super   link.Supervisor
	policy  awc.Policy
	wrap    reflow.Options
	onCycle func([]CycleResult)

	// last keeps the most recent good report per station so a failed
	// cycle can re-render stale data instead of blanking the slot.
	last map[string]*metar.Report
}

// New builds an engine from the config and collaborators. Without an
// explicit layout the config's station fills the whole display.
func New(cfg Config, opts Options) (*Engine, error) {
	cfg = cfg.Normalize()
	if opts.Device == nil {
		return nil, errors.New("panel: device is required")
	}
	layout := opts.Layout
	if layout == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		layout = dashboard.Single(cfg.Station, cfg.Cols, cfg.Rows)
	}
	cols, rows := opts.Device.Size()
	if layout.Cols > cols || layout.Rows > rows {
		return nil, fmt.Errorf("panel: layout %dx%d exceeds display %dx%d", layout.Cols, layout.Rows, cols, rows)
	}
	source := opts.Source
	if source == nil {
		source = awc.Client{}
	}
	return &Engine{
		cfg:     cfg,
		layout:  layout,
		source:  source,
		device:  opts.Device,
		super:   opts.Supervisor,
		policy:  awc.Policy{Refresh: cfg.Refresh, Retry: cfg.Retry},
		wrap:    reflow.Options{Policy: cfg.Policy},
		onCycle: opts.OnCycle,
		last:    make(map[string]*metar.Report),
	}, nil
}

// Config returns the effective configuration after defaults.
func (e *Engine) Config() Config { return e.cfg }

// Layout returns the slot layout the engine renders.
func (e *Engine) Layout() *dashboard.Layout { return e.layout }

// Run cycles until the context ends and returns the context's error.
func (e *Engine) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if stop := startProfiler(ctx); stop != nil {
		defer stop()
	}
	for {
		results := e.RunOnce(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		ok := true
		for _, res := range results {
			if res.Err != nil {
				ok = false
				break
			}
		}
		if err := sleepWithContext(ctx, e.policy.NextAfter(ok)); err != nil {
			return err
		}
	}
}

// RunOnce performs a single fetch/render cycle over every slot.
func (e *Engine) RunOnce(ctx context.Context) []CycleResult {
	if ctx == nil {
		ctx = context.Background()
	}
	profiling.Trigger("fetch cycle")
	linkErr := e.super.Ensure(ctx)
	if linkErr != nil {
		slog.Warn("panel: link unavailable", "error", linkErr)
	}
	if err := e.device.Clear(); err != nil {
		slog.Warn("panel: display clear failed", "error", err)
	}
	results := make([]CycleResult, 0, len(e.layout.Slots))
	for _, slot := range e.layout.Slots {
		results = append(results, e.cycleSlot(ctx, slot, linkErr))
	}
	if diag.Enabled() {
		stale, failed := 0, 0
		for _, res := range results {
			if res.Stale {
				stale++
			}
			if res.Err != nil {
				failed++
			}
		}
		diag.LogEvery("cycle", time.Minute, "cycle slots=%d stale=%d failed=%d", len(results), stale, failed)
	}
	if e.onCycle != nil {
		e.onCycle(results)
	}
	return results
}

func (e *Engine) cycleSlot(ctx context.Context, slot dashboard.Slot, linkErr error) CycleResult {
	res := CycleResult{Station: slot.Station}
	if linkErr != nil {
		res.Err = linkErr
	} else {
		report, err := e.fetch(ctx, slot.Station)
		if err != nil {
			slog.Warn("panel: fetch failed", "station", slot.Station, "error", err)
			res.Err = err
		} else {
			e.last[slot.Station] = report
			res.Report = report
		}
	}
	if res.Report == nil {
		if prev, ok := e.last[slot.Station]; ok {
			res.Report = prev
			res.Stale = true
		}
	}
	text := fallbackText
	if res.Report != nil && strings.TrimSpace(res.Report.RawText) != "" {
		text = res.Report.RawText
	}
	if err := e.renderSlot(slot, text); err != nil {
		slog.Warn("panel: render failed", "station", slot.Station, "error", err)
		if res.Err == nil {
			res.Err = err
		}
	}
	return res
}

// fetch retrieves and decodes one station's report. When strict decoding
// fails it falls back to marker extraction so a report with fields the
// decoder rejects still reaches the display.
func (e *Engine) fetch(ctx context.Context, station string) (*metar.Report, error) {
	payload, err := e.source.Fetch(ctx, station)
	if err != nil {
		return nil, err
	}
	diag.Logf("fetch %s: %d bytes", station, len(payload))
	report, decodeErr := metar.Decode(payload)
	if decodeErr == nil {
		return report, nil
	}
	raw, err := metar.ExtractRaw(payload, e.cfg.StartMarker, e.cfg.EndMarker)
	if err != nil {
		slog.Warn("panel: undecodable payload", "station", station, logging.PayloadAttr("payload", payload))
		return nil, fmt.Errorf("extract %s: %w", station, err)
	}
	slog.Debug("panel: strict decode failed; extracted raw text", "station", station, "error", decodeErr, logging.PayloadAttr("payload", payload))
	return &metar.Report{StationID: station, RawText: raw}, nil
}

// renderSlot wraps the text into the slot's rows and prints it. A title
// takes the first row; the text gets whatever remains.
func (e *Engine) renderSlot(slot dashboard.Slot, text string) error {
	start := slot.Start
	lines := slot.Lines
	if slot.Title != "" {
		if err := e.device.Print(reflow.Clip(slot.Title, e.layout.Cols), start); err != nil {
			return err
		}
		start++
		lines--
	}
	if lines <= 0 {
		return nil
	}
	wrapped, err := reflow.WrapWithOptions(text, e.layout.Cols, e.wrap)
	if err != nil {
		// Keep the display alive on width errors: print what fits.
		return errors.Join(err, e.device.Print(reflow.Clip(text, e.layout.Cols*lines), start))
	}
	return e.device.Print(reflow.Clip(wrapped, e.layout.Cols*lines), start)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
