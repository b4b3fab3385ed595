// Package debug implements hidden commands for inspecting runtime internals.
package debug

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/regenrek/metarbar/internal/appdirs"
	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/profiles"
	"github.com/regenrek/metarbar/internal/runenv"
	"github.com/regenrek/metarbar/internal/update"
)

// Register registers debug handlers.
func Register(reg *root.Registry) {
	reg.Register("debug.paths", runPaths)
}

func runPaths(ctx root.CommandContext) error {
	start := time.Now()
	paths, err := resolvePaths()
	if err != nil {
		return err
	}
	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("debug.paths", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, paths)
	}
	if _, err := fmt.Fprintf(ctx.Out, "fresh_config: %v\n", paths.FreshConfig); err != nil {
		return err
	}
	lines := [8][2]string{
		{"runtime_dir", paths.RuntimeDir},
		{"data_dir", paths.DataDir},
		{"config_dir", paths.ConfigDir},
		{"config_path", paths.ConfigPath},
		{"layouts_dir", paths.LayoutsDir},
		{"profiles_path", paths.ProfilesPath},
		{"dashboard_path", paths.DashboardPath},
		{"update_state_path", paths.UpdateStatePath},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(ctx.Out, "%s: %s\n", line[0], line[1]); err != nil {
			return err
		}
	}
	return nil
}

func resolvePaths() (output.DebugPaths, error) {
	runtimeDir, err := appdirs.RuntimeDirPath()
	if err != nil {
		return output.DebugPaths{}, err
	}
	dataDir, err := appdirs.DataDirPath()
	if err != nil {
		return output.DebugPaths{}, err
	}
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		return output.DebugPaths{}, err
	}
	configDir := ""
	if configPath != "" {
		configDir = filepath.Dir(configPath)
	}
	layoutsDir, err := config.DefaultLayoutsDir()
	if err != nil {
		return output.DebugPaths{}, err
	}
	profilesPath, err := profiles.DefaultPath()
	if err != nil {
		return output.DebugPaths{}, err
	}
	dashboardPath, err := config.DefaultDashboardPath()
	if err != nil {
		return output.DebugPaths{}, err
	}
	statePath, err := update.DefaultStatePath()
	if err != nil && !errors.Is(err, update.ErrStateDisabled) {
		return output.DebugPaths{}, err
	}
	return output.DebugPaths{
		RuntimeDir:      runtimeDir,
		DataDir:         dataDir,
		ConfigDir:       configDir,
		ConfigPath:      configPath,
		LayoutsDir:      layoutsDir,
		ProfilesPath:    profilesPath,
		DashboardPath:   dashboardPath,
		UpdateStatePath: statePath,
		FreshConfig:     runenv.FreshConfigEnabled(),
	}, nil
}
