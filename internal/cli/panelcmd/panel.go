// Package panelcmd runs the live panel in its terminal, plain, and
// one-shot forms.
package panelcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/metarbar/internal/awc"
	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/display"
	"github.com/regenrek/metarbar/internal/keyreader"
	"github.com/regenrek/metarbar/internal/link"
	"github.com/regenrek/metarbar/internal/panel"
	"github.com/regenrek/metarbar/internal/tui/panelview"
	"github.com/regenrek/metarbar/internal/update"
)

// Register registers the panel handler.
func Register(reg *root.Registry) {
	reg.Register("panel", runPanel)
}

type programRunner interface {
	Run() (tea.Model, error)
}

var newProgramFn = func(model tea.Model, opts ...tea.ProgramOption) programRunner {
	return tea.NewProgram(model, opts...)
}

func runPanel(ctx root.CommandContext) error {
	start := time.Now()
	if ctx.Cmd.IsSet("cycles") && !ctx.JSON {
		return errors.New("--cycles needs --json")
	}
	s, err := resolveSettings(ctx)
	if err != nil {
		return err
	}
	switch {
	case ctx.JSON:
		return runJSONCycles(ctx, s, start, ctx.Cmd.Int("cycles"))
	case ctx.Cmd.Bool("once"):
		return runOnce(ctx, s)
	case ctx.Cmd.Bool("plain"):
		return runPlain(ctx, s)
	default:
		return runTUI(ctx, s)
	}
}

func buildEngine(ctx root.CommandContext, s settings, device display.Device) (*panel.Engine, error) {
	return panel.New(s.Panel, panel.Options{
		Source:     ctx.Deps.SourceFor(s.Fetch),
		Device:     device,
		Supervisor: buildSupervisor(s.Link, s.Vars),
		Layout:     s.Layout,
	})
}

func buildSupervisor(section config.LinkSection, vars map[string]string) link.Supervisor {
	sup := link.Supervisor{Delay: section.Delay(), MaxAttempts: section.MaxAttempts}
	if url := strings.TrimSpace(section.CheckURL); url != "" {
		sup.Checker = link.ProbeChecker{URL: url}
	}
	if cmd := strings.TrimSpace(section.ConnectCmd); cmd != "" {
		sup.Connector = link.NewCommandConnector(config.ExpandVars(cmd, vars))
	}
	return sup
}

func newMemoryDevice(s settings) (*display.Memory, error) {
	cols, rows := s.geometry()
	return display.NewMemory(cols, rows)
}

// runJSONCycles fetches and emits cycle envelopes. The default single
// cycle carries a plain meta; with --cycles N the envelopes form a
// bounded stream whose seq and eof markers tell line-oriented readers
// when to stop. A failed slot is reported in the payload, not as a
// command failure; only setup problems abort the command.
func runJSONCycles(ctx root.CommandContext, s settings, start time.Time, cycles int) error {
	if cycles < 1 {
		cycles = 1
	}
	device, err := newMemoryDevice(s)
	if err != nil {
		return err
	}
	engine, err := buildEngine(ctx, s, device)
	if err != nil {
		return err
	}
	wait := awc.Policy{Refresh: s.Panel.Refresh, Retry: s.Panel.Retry}
	for seq := 1; seq <= cycles; seq++ {
		cycle, ok := collectCycle(ctx, s, engine, device)
		meta := output.NewMeta("panel", ctx.Deps.Version)
		if cycles > 1 {
			meta = output.NewStreamMeta("panel", ctx.Deps.Version, int64(seq), seq == cycles)
		}
		if err := output.WriteSuccess(ctx.Out, output.WithDuration(meta, start), cycle); err != nil {
			return err
		}
		if seq == cycles {
			break
		}
		start = time.Now()
		select {
		case <-ctx.Context.Done():
			return ctx.Context.Err()
		case <-time.After(wait.NextAfter(ok)):
		}
	}
	return nil
}

// collectCycle runs one engine cycle and packages it for the envelope.
func collectCycle(ctx root.CommandContext, s settings, engine *panel.Engine, device *display.Memory) (output.PanelCycle, bool) {
	results := engine.RunOnce(ctx.Context)
	ok := true
	slots := make([]output.PanelSlot, 0, len(results))
	for _, res := range results {
		slot := output.PanelSlot{Station: res.Station, Stale: res.Stale}
		if res.Report != nil {
			slot.Raw = res.Report.RawText
		}
		if res.Err != nil {
			ok = false
			slot.Error = res.Err.Error()
		}
		slots = append(slots, slot)
	}
	cols, rows := s.geometry()
	return output.PanelCycle{
		Cols:   cols,
		Rows:   rows,
		OK:     ok,
		Slots:  slots,
		Screen: device.Rows(),
	}, ok
}

func runOnce(ctx root.CommandContext, s settings) error {
	device, err := newMemoryDevice(s)
	if err != nil {
		return err
	}
	engine, err := buildEngine(ctx, s, device)
	if err != nil {
		return err
	}
	results := engine.RunOnce(ctx.Context)
	if err := cycleFailure(results); err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, device.String())
	return err
}

// cycleFailure returns an error only when every slot failed without even a
// stale report to show.
func cycleFailure(results []panel.CycleResult) error {
	var firstErr error
	for _, res := range results {
		if res.Err == nil || res.Report != nil {
			return nil
		}
		if firstErr == nil {
			firstErr = res.Err
		}
	}
	return firstErr
}

func runPlain(ctx root.CommandContext, s settings) error {
	cols, rows := s.geometry()
	term, err := display.NewTerminal(ctx.Out, cols, rows)
	if err != nil {
		return err
	}
	engine, err := buildEngine(ctx, s, term)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()
	reader, err := keyreader.Start(runCtx, ctx.Stdin, cancel)
	if err != nil {
		slog.Warn("quit key unavailable", "error", err)
	} else {
		defer reader.Stop()
	}
	term.HideCursor()
	defer term.ShowCursor()
	if err := engine.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runTUI(ctx root.CommandContext, s settings) error {
	device, err := newMemoryDevice(s)
	if err != nil {
		return err
	}
	engine, err := buildEngine(ctx, s, device)
	if err != nil {
		return err
	}
	var registry update.RegistryClient
	if s.Update.Check == nil || *s.Update.Check {
		registry = ctx.Deps.RegistryFor()
	}
	model, err := panelview.New(engine, device, panelview.Options{
		Version:  ctx.Deps.Version,
		Registry: registry,
		Units:    s.Units,
		ShowAge:  s.ShowAge,
	})
	if err != nil {
		return err
	}
	p := newProgramFn(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("panel UI error: %w", err)
	}
	return nil
}
