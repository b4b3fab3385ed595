// Package fetchcmd implements the one-shot observation fetch command.
package fetchcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/awc"
	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/metar"
	"github.com/regenrek/metarbar/internal/panel"
	"github.com/regenrek/metarbar/internal/reflow"
)

// Register wires the fetch command into the registry.
func Register(reg *root.Registry) {
	reg.Register("fetch", runFetch)
}

func runFetch(ctx root.CommandContext) error {
	start := time.Now()
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}
	stations, err := targetStations(ctx, cfg)
	if err != nil {
		return err
	}
	if hours := ctx.Cmd.Int("hours"); hours > 0 {
		cfg.Fetch.Hours = hours
	}
	// One Normalize call supplies the geometry and marker defaults the
	// panel itself would use.
	pc := panel.Config{
		Cols:        cfg.Panel.Cols,
		Rows:        cfg.Panel.Rows,
		StartMarker: cfg.Panel.StartMarker,
		EndMarker:   cfg.Panel.EndMarker,
	}.Normalize()
	policy, err := reflow.ParsePolicy(cfg.Panel.LongWords)
	if err != nil {
		return err
	}

	source := ctx.Deps.SourceFor(cfg.Fetch)
	wrap := ctx.Cmd.Bool("wrap")
	now := time.Now()

	var (
		reports []output.ReportSummary
		fails   []output.StationError
	)
	for _, station := range stations {
		report, err := fetchStation(ctx.Context, source, station, pc)
		if err != nil {
			fails = append(fails, output.StationError{Station: station, Message: err.Error()})
			continue
		}
		sum := summarize(report, station, now)
		if wrap {
			rows, err := panelRows(report.RawText, pc, policy)
			if err != nil {
				fails = append(fails, output.StationError{Station: station, Message: err.Error()})
				continue
			}
			sum.Rows = rows
		}
		reports = append(reports, sum)
	}
	if len(reports) == 0 && len(fails) > 0 {
		return fmt.Errorf("fetch %s: %s", fails[0].Station, fails[0].Message)
	}

	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("fetch", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, output.FetchReport{Reports: reports, Errors: fails})
	}
	for _, fail := range fails {
		fmt.Fprintf(ctx.ErrOut, "fetch %s: %s\n", fail.Station, fail.Message)
	}
	writeText(ctx, reports, ctx.Cmd.Bool("raw"))
	return nil
}

// fetchStation retrieves and decodes one report, falling back to marker
// extraction when the strict decoder rejects the payload.
func fetchStation(ctx context.Context, source awc.Source, station string, pc panel.Config) (*metar.Report, error) {
	payload, err := source.Fetch(ctx, station)
	if err != nil {
		return nil, err
	}
	report, decodeErr := metar.Decode(payload)
	if decodeErr == nil {
		return report, nil
	}
	raw, err := metar.ExtractRaw(payload, pc.StartMarker, pc.EndMarker)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", station, err)
	}
	return &metar.Report{StationID: station, RawText: raw}, nil
}

func summarize(report *metar.Report, station string, now time.Time) output.ReportSummary {
	sum := output.ReportSummary{Station: station, Raw: report.RawText}
	if id := strings.TrimSpace(report.StationID); id != "" {
		sum.Station = id
	}
	sum.Observed = report.ObservationTime
	if age := report.Age(now); age > 0 {
		sum.AgeSec = int64(age / time.Second)
	}
	sum.TempC = report.TempC
	sum.DewpointC = report.DewpointC
	sum.WindDirDegrees = report.WindDirDegrees
	sum.WindSpeedKt = report.WindSpeedKt
	sum.VisibilitySM = report.VisibilityStatuteMi
	sum.AltimeterInHg = report.AltimInHg
	sum.FlightCategory = report.FlightCategory
	return sum
}

// panelRows previews exactly what the panel would display: wrapped,
// clipped to the geometry, split into device rows.
func panelRows(raw string, pc panel.Config, policy reflow.Policy) ([]string, error) {
	wrapped, err := reflow.WrapWithOptions(raw, pc.Cols, reflow.Options{Policy: policy})
	if err != nil {
		return nil, err
	}
	return reflow.SplitRows(reflow.Clip(wrapped, pc.Cols*pc.Rows), pc.Cols), nil
}

func writeText(ctx root.CommandContext, reports []output.ReportSummary, rawOnly bool) {
	for i, sum := range reports {
		if rawOnly {
			fmt.Fprintln(ctx.Out, sum.Raw)
			continue
		}
		if i > 0 {
			fmt.Fprintln(ctx.Out)
		}
		fmt.Fprintln(ctx.Out, headerLine(sum))
		if len(sum.Rows) > 0 {
			for _, row := range sum.Rows {
				fmt.Fprintln(ctx.Out, row)
			}
			continue
		}
		fmt.Fprintln(ctx.Out, sum.Raw)
	}
}

func headerLine(sum output.ReportSummary) string {
	parts := []string{sum.Station}
	if sum.FlightCategory != "" {
		parts = append(parts, sum.FlightCategory)
	}
	if !sum.Observed.IsZero() {
		parts = append(parts, fmt.Sprintf("%.0f°C", sum.TempC))
		if sum.WindSpeedKt > 0 {
			parts = append(parts, fmt.Sprintf("%03d°/%dkt", sum.WindDirDegrees, sum.WindSpeedKt))
		}
	}
	if sum.AgeSec > 0 {
		parts = append(parts, formatAge(time.Duration(sum.AgeSec)*time.Second)+" old")
	}
	return strings.Join(parts, "  ")
}

func formatAge(age time.Duration) string {
	if age < time.Minute {
		return "<1m"
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm", int(age.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(age.Hours()), int(age.Minutes())%60)
}

func targetStations(ctx root.CommandContext, cfg *config.Config) ([]string, error) {
	stations := make([]string, 0, len(ctx.Args))
	for _, arg := range ctx.Args {
		if station := strings.ToUpper(strings.TrimSpace(arg)); station != "" {
			stations = append(stations, station)
		}
	}
	if len(stations) > 0 {
		return stations, nil
	}
	local, err := loadLocalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if local != nil {
		if station := strings.ToUpper(strings.TrimSpace(local.Station)); station != "" {
			return []string{station}, nil
		}
	}
	if station := strings.ToUpper(strings.TrimSpace(cfg.Panel.Station)); station != "" {
		return []string{station}, nil
	}
	return nil, errors.New(`no station given; pass one or more ICAO codes or run "metarbar init"`)
}

func loadGlobalConfig() (*config.Config, error) {
	path, err := config.DefaultConfigPath()
	if err != nil || path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &config.Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func loadLocalConfig(ctx root.CommandContext) (*config.LocalConfig, error) {
	dir, err := root.ResolveWorkDir(ctx)
	if err != nil {
		return nil, err
	}
	local, err := config.LoadLocal(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return local, nil
}
