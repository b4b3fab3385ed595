// Package configcmd implements the config inspection commands.
package configcmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
)

// Register wires the config subcommands into the registry.
func Register(reg *root.Registry) {
	reg.Register("config.show", runShow)
	reg.Register("config.path", runPath)
}

func runShow(ctx root.CommandContext) error {
	start := time.Now()
	path, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
			// Missing file shows as the zero config.
		default:
			return err
		}
	}

	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("config.show", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, output.ConfigShow{Path: path, Config: cfg})
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if path != "" {
		fmt.Fprintf(ctx.Out, "# %s\n", path)
	}
	_, _ = ctx.Out.Write(data)
	return nil
}

func runPath(ctx root.CommandContext) error {
	start := time.Now()
	path, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("config.path", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, output.ConfigPath{Path: path})
	}
	if path == "" {
		fmt.Fprintln(ctx.Out, "config file disabled for this run")
		return nil
	}
	fmt.Fprintln(ctx.Out, path)
	return nil
}
