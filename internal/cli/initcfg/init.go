// Package initcfg implements the init command that writes starter
// configuration files.
package initcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/regenrek/metarbar/internal/atomicfile"
	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/dashboard"
	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/stations"
)

const defaultStation = "KSFO"

const localTemplate = `# metarbar - project station pin
# Anyone running metarbar from this directory gets this station.

station: %s

# Or point at a KDL dashboard layout (path may use ${VARS}):
%s

# vars:
#   WIFI_SSID: Home
`

// Register wires the init command into the registry.
func Register(reg *root.Registry) {
	reg.Register("init", runInit)
}

type initOptions struct {
	Local     bool
	Dashboard bool
	Force     bool
	Station   string
}

func runInit(ctx root.CommandContext) error {
	start := time.Now()
	opts := initOptions{
		Local:     ctx.Cmd.Bool("local"),
		Dashboard: ctx.Cmd.Bool("dashboard"),
		Force:     ctx.Cmd.Bool("force"),
		Station:   defaultStation,
	}
	if !ctx.Cmd.Bool("no-input") && interactive(ctx) {
		if err := runWizard(&opts); err != nil {
			return err
		}
	}

	var (
		result output.ActionResult
		err    error
	)
	if opts.Local {
		result, err = initLocal(ctx, opts)
	} else {
		result, err = initGlobal(opts)
	}
	if err != nil {
		return err
	}

	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("init", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, result)
	}
	fmt.Fprintln(ctx.Out, result.Message)
	for _, path := range result.Paths {
		fmt.Fprintf(ctx.Out, "  %s\n", path)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(ctx.ErrOut, "warning: %s\n", warning)
	}
	if result.Status == "created" {
		fmt.Fprintf(ctx.Out, "\nNext: run %q or edit the files above.\n", identity.CLIName)
	}
	return nil
}

// interactive reports whether the wizard can talk to a person. Injected
// readers (tests, pipes) skip it.
func interactive(ctx root.CommandContext) bool {
	return ctx.Stdin == nil || ctx.Stdin == os.Stdin
}

func runWizard(opts *initOptions) error {
	askDashboard := !opts.Dashboard
	fields := []huh.Field{
		huh.NewInput().
			Title("Station").
			Description("ICAO identifier the panel should watch").
			Value(&opts.Station).
			Validate(func(v string) error {
				if !stations.IsValidICAO(v) {
					return errors.New("four characters, letters or digits, starting with a letter")
				}
				return nil
			}),
	}
	if askDashboard {
		fields = append(fields,
			huh.NewConfirm().
				Title("Write a starter dashboard layout?").
				Description("A KDL file splitting the panel across stations").
				Value(&opts.Dashboard),
		)
	}
	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("aborted by user")
		}
		return err
	}
	opts.Station = strings.ToUpper(strings.TrimSpace(opts.Station))
	return nil
}

func initGlobal(opts initOptions) (output.ActionResult, error) {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return output.ActionResult{}, fmt.Errorf("cannot determine config path: %w", err)
	}
	if path == "" {
		return output.ActionResult{}, errors.New("global config is disabled for this run")
	}
	layoutsDir, err := config.DefaultLayoutsDir()
	if err != nil {
		return output.ActionResult{}, fmt.Errorf("cannot determine layouts dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return output.ActionResult{}, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.MkdirAll(layoutsDir, 0o755); err != nil {
		return output.ActionResult{}, fmt.Errorf("create layouts dir: %w", err)
	}

	result := output.ActionResult{Action: "init", Status: "created"}
	if _, err := os.Stat(path); err == nil && !opts.Force {
		result.Status = "skipped"
		result.Message = fmt.Sprintf("Config already exists: %s (use --force to overwrite)", path)
	} else {
		content := strings.Replace(
			config.DefaultGlobalConfigContent(),
			"station: "+defaultStation,
			"station: "+opts.Station,
			1,
		)
		if err := atomicfile.Save(path, []byte(content), 0o644); err != nil {
			return output.ActionResult{}, fmt.Errorf("write config: %w", err)
		}
		result.Message = "Initialized metarbar"
		result.Paths = append(result.Paths, path, layoutsDir)
	}

	if opts.Dashboard {
		dashPath, err := config.DefaultDashboardPath()
		if err != nil {
			return output.ActionResult{}, err
		}
		if err := dashboard.WriteTemplate(dashPath, opts.Force); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.Paths = append(result.Paths, dashPath)
		}
	}
	return result, nil
}

func initLocal(ctx root.CommandContext, opts initOptions) (output.ActionResult, error) {
	dir, err := root.ResolveWorkDir(ctx)
	if err != nil {
		return output.ActionResult{}, err
	}
	path := filepath.Join(dir, identity.ProjectConfigFileYML)
	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			return output.ActionResult{}, fmt.Errorf("%s already exists (use --force to overwrite)", identity.ProjectConfigFileYML)
		}
	}

	dashboardLine := "# dashboard: layouts/dashboard.kdl"
	result := output.ActionResult{Action: "init", Status: "created"}
	if opts.Dashboard {
		dashPath := filepath.Join(dir, "dashboard.kdl")
		if err := dashboard.WriteTemplate(dashPath, opts.Force); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			dashboardLine = "dashboard: dashboard.kdl"
			result.Paths = append(result.Paths, dashPath)
		}
	}
	content := fmt.Sprintf(localTemplate, opts.Station, dashboardLine)
	if err := atomicfile.Save(path, []byte(content), 0o644); err != nil {
		return output.ActionResult{}, fmt.Errorf("write %s: %w", path, err)
	}
	result.Message = "Created " + identity.ProjectConfigFileYML
	result.Paths = append([]string{path}, result.Paths...)
	return result, nil
}
