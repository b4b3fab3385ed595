package root

import (
	"context"
	"errors"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/spec"
	"github.com/regenrek/metarbar/internal/identity"
)

// Runner ties the embedded command spec to a built urfave/cli app and
// applies the argv rewrites (default command, station shorthand)
// before dispatch.
type Runner struct {
	specDoc *spec.Spec
	deps    Dependencies
	app     *cli.Command
}

func NewRunner(specDoc *spec.Spec, deps Dependencies, reg *Registry) (*Runner, error) {
	app, err := BuildApp(specDoc, deps, reg)
	if err != nil {
		return nil, err
	}
	return &Runner{specDoc: specDoc, deps: deps, app: app}, nil
}

// Run dispatches argv. The app name tracks argv[0] so renamed or
// symlinked installs show their own name in help output.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if r == nil || r.app == nil {
		return errors.New("runner not initialized")
	}
	if r.specDoc != nil {
		name := identity.ResolveBinaryName(args)
		r.specDoc.App.Name = name
		r.app.Name = name
	}
	return r.app.Run(ctx, applyShorthand(r.specDoc, args))
}

// applyShorthand rewrites bare invocations: no arguments runs the
// default command, and a single non-flag token that is not a command
// name is treated as a station for the panel ("metarbar KSFO").
func applyShorthand(specDoc *spec.Spec, args []string) []string {
	if specDoc == nil {
		return args
	}
	switch {
	case len(args) == 1:
		if def := strings.TrimSpace(specDoc.App.DefaultCommand); def != "" {
			return []string{args[0], def}
		}
	case len(args) == 2 && specDoc.App.AllowStationShorthand:
		station := args[1]
		if !strings.HasPrefix(station, "-") && !knownCommand(specDoc, station) {
			return []string{args[0], "panel", "--station", station}
		}
	}
	return args
}

// knownCommand matches value against command names and aliases,
// case-insensitively.
func knownCommand(specDoc *spec.Spec, value string) bool {
	value = strings.TrimSpace(value)
	if specDoc == nil || value == "" {
		return false
	}
	for _, cmd := range specDoc.Commands {
		for _, name := range append([]string{cmd.Name}, cmd.Aliases...) {
			if strings.EqualFold(name, value) {
				return true
			}
		}
	}
	return false
}
