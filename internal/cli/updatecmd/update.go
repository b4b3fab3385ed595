// Package updatecmd implements release checking and self-update.
package updatecmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/update"
)

const (
	checkTimeout   = 15 * time.Second
	installTimeout = 10 * time.Minute
	stateIOTimeout = 2 * time.Second
)

// Test seams for the pieces that touch the running binary.
var (
	exePathFn = os.Executable
	detectFn  = update.DetectInstall
	installFn = func(ctx context.Context, spec update.InstallSpec) error {
		return update.NewInstaller().Install(ctx, spec)
	}
)

// Register wires the update subcommands into the registry.
func Register(reg *root.Registry) {
	reg.Register("update.check", runCheck)
	reg.Register("update.run", runRun)
}

func runCheck(ctx root.CommandContext) error {
	start := time.Now()
	current := update.NormalizeVersion(ctx.Deps.Version)
	checkCtx, cancel := context.WithTimeout(ctx.Context, checkTimeout)
	defer cancel()
	latest, err := ctx.Deps.RegistryFor().LatestVersion(checkCtx)
	if err != nil {
		return fmt.Errorf("check latest release: %w", err)
	}
	latest = update.NormalizeVersion(latest)

	status := output.UpdateStatus{
		CurrentVersion: current,
		LatestVersion:  latest,
		Development:    update.IsDevelopmentVersion(ctx.Deps.Version),
	}
	if !status.Development {
		if cmp, err := update.CompareVersions(current, latest); err == nil && cmp < 0 {
			status.UpdateAvailable = true
		}
	}
	var channel update.Channel
	if exe, err := exePathFn(); err == nil {
		if spec, err := detectFn(ctx.Context, exe); err == nil {
			channel = spec.Channel
			status.Channel = string(spec.Channel)
			if status.UpdateAvailable {
				status.Command = update.UpdateCommand(spec)
			}
		}
	}
	persistCheck(current, latest, channel)

	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("update.check", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, status)
	}
	switch {
	case status.Development:
		fmt.Fprintf(ctx.Out, "development build (%s); latest release is %s\n", ctx.Deps.Version, latest)
	case status.UpdateAvailable:
		fmt.Fprintf(ctx.Out, "Update available: %s (current %s)\n", latest, current)
		command := status.Command
		if command == "" {
			command = "metarbar update run"
		}
		fmt.Fprintf(ctx.Out, "Run: %s\n", command)
	default:
		fmt.Fprintf(ctx.Out, "metarbar %s is up to date\n", current)
	}
	return nil
}

// persistCheck records the check so the panel banner and prompt cooldowns
// see it. Failures only warn; the check result already reached the user.
func persistCheck(current, latest string, channel update.Channel) {
	path, err := update.DefaultStatePath()
	if err != nil {
		return
	}
	store := update.FileStore{Path: path}
	ioCtx, cancel := context.WithTimeout(context.Background(), stateIOTimeout)
	defer cancel()
	state, err := store.Load(ioCtx)
	if err != nil {
		slog.Warn("update: load state failed", "error", err)
		state = update.State{}
	}
	state.CurrentVersion = current
	state.LatestVersion = latest
	if channel != "" {
		state.Channel = channel
	}
	state.MarkChecked(time.Now())
	if err := store.Save(ioCtx, state); err != nil {
		slog.Warn("update: save state failed", "error", err)
	}
}

func runRun(ctx root.CommandContext) error {
	start := time.Now()
	current := update.NormalizeVersion(ctx.Deps.Version)

	// A failed release check never blocks the install; it only enables
	// the up-to-date short-circuit.
	if !update.IsDevelopmentVersion(ctx.Deps.Version) {
		checkCtx, cancel := context.WithTimeout(ctx.Context, checkTimeout)
		latest, err := ctx.Deps.RegistryFor().LatestVersion(checkCtx)
		cancel()
		if err == nil {
			if cmp, cmpErr := update.CompareVersions(current, latest); cmpErr == nil && cmp >= 0 {
				return writeRunResult(ctx, start, output.ActionResult{
					Action:  "update.run",
					Status:  "noop",
					Message: fmt.Sprintf("metarbar %s is already the latest release", current),
				})
			}
		}
	}

	exe, err := exePathFn()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	spec, err := detectFn(ctx.Context, exe)
	if err != nil {
		return fmt.Errorf("detect install channel: %w", err)
	}
	if spec.Channel == update.ChannelUnknown {
		return fmt.Errorf("cannot determine how metarbar was installed; update manually (binary: %s)", spec.Executable)
	}
	if !ctx.JSON {
		fmt.Fprintf(ctx.Out, "Updating via %s: %s\n", spec.Channel, update.UpdateCommand(spec))
	}
	installCtx, cancel := context.WithTimeout(ctx.Context, installTimeout)
	defer cancel()
	if err := installFn(installCtx, spec); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return writeRunResult(ctx, start, output.ActionResult{
		Action:  "update.run",
		Status:  "updated",
		Message: "Reinstalled metarbar; restart to pick up the new binary",
		Details: map[string]any{"channel": string(spec.Channel)},
	})
}

func writeRunResult(ctx root.CommandContext, start time.Time, result output.ActionResult) error {
	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("update.run", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, result)
	}
	fmt.Fprintln(ctx.Out, result.Message)
	return nil
}
