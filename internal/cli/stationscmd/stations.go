// Package stationscmd implements the station catalog search command.
package stationscmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/stations"
)

// Register wires the stations command into the registry.
func Register(reg *root.Registry) {
	reg.Register("stations", runStations)
}

func runStations(ctx root.CommandContext) error {
	start := time.Now()
	query := strings.TrimSpace(strings.Join(ctx.Args, " "))
	limit := ctx.Cmd.Int("limit")

	all := stations.Search(query, 0)
	shown := all
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	list := output.StationList{
		Query:    query,
		Stations: make([]output.StationInfo, 0, len(shown)),
		Total:    len(all),
	}
	for _, match := range shown {
		list.Stations = append(list.Stations, output.StationInfo{ICAO: match.ICAO, Name: match.Name})
	}

	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("stations", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, list)
	}
	if len(shown) == 0 {
		fmt.Fprintf(ctx.Out, "no stations match %q\n", query)
		return nil
	}
	for _, station := range list.Stations {
		fmt.Fprintf(ctx.Out, "%-4s  %s\n", station.ICAO, station.Name)
	}
	if len(shown) < len(all) {
		fmt.Fprintf(ctx.Out, "… %d more (raise --limit)\n", len(all)-len(shown))
	}
	return nil
}
