package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/spec"
)

// BuildApp assembles the urfave/cli command tree from the embedded spec
// and the handler registry.
func BuildApp(doc *spec.Spec, deps Dependencies, reg *Registry) (*cli.Command, error) {
	if doc == nil {
		return nil, errors.New("nil command spec")
	}
	if reg == nil {
		return nil, errors.New("nil handler registry")
	}
	if err := reg.EnsureHandlers(doc); err != nil {
		return nil, err
	}

	globalFlags, err := buildFlags(doc.GlobalFlags)
	if err != nil {
		return nil, err
	}
	app := &cli.Command{
		Name:        doc.App.Name,
		Usage:       doc.App.Summary,
		Description: doc.App.Summary,
		Flags:       globalFlags,
		Writer:      deps.Stdout,
		ErrWriter:   deps.Stderr,
	}
	for _, entry := range doc.Commands {
		cmd, err := buildCommand(entry, deps, reg)
		if err != nil {
			return nil, err
		}
		app.Commands = append(app.Commands, cmd)
	}

	var undoEnv func()
	app.Before = func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cmd != nil && cmd.Bool("version") {
			printVersion(deps, doc.App.Name)
			return ctx, cli.Exit("", 0)
		}
		cleanup, err := applyRunEnvFromFlags(cmd)
		if err != nil {
			return ctx, err
		}
		undoEnv = cleanup
		return ctx, nil
	}
	app.After = func(context.Context, *cli.Command) error {
		if undoEnv != nil {
			undoEnv()
			undoEnv = nil
		}
		return nil
	}
	app.Action = func(ctx context.Context, _ *cli.Command) error {
		return runDefaultCommand(ctx, doc, deps, reg)
	}
	return app, nil
}

func printVersion(deps Dependencies, appName string) {
	out := deps.Stdout
	if out == nil {
		out = io.Discard
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", appName, deps.Version)
}

func buildCommand(entry spec.Command, deps Dependencies, reg *Registry) (*cli.Command, error) {
	flags, err := buildFlags(entry.Flags)
	if err != nil {
		return nil, fmt.Errorf("flags for %s: %w", entry.ID, err)
	}
	cmd := &cli.Command{
		Name:        entry.Name,
		Aliases:     entry.Aliases,
		Usage:       entry.Summary,
		Description: entry.Description,
		Hidden:      entry.Hidden,
		Flags:       flags,
		ArgsUsage:   argsUsage(entry.Args),
		Arguments:   buildArguments(entry.Args),
	}
	for _, child := range entry.Subcommands {
		sub, err := buildCommand(child, deps, reg)
		if err != nil {
			return nil, err
		}
		cmd.Commands = append(cmd.Commands, sub)
	}
	if handler, ok := reg.HandlerFor(entry.ID); ok {
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			return invoke(ctx, c, entry, deps, handler)
		}
	}
	return cmd, nil
}

func runDefaultCommand(ctx context.Context, doc *spec.Spec, deps Dependencies, reg *Registry) error {
	name := strings.TrimSpace(doc.App.DefaultCommand)
	if name == "" {
		return nil
	}
	entry := doc.FindByID(name)
	if entry == nil {
		return fmt.Errorf("default command %q is not in the spec", name)
	}
	handler, ok := reg.HandlerFor(entry.ID)
	if !ok {
		return fmt.Errorf("default command %q has no handler", entry.ID)
	}
	return invoke(ctx, &cli.Command{Name: entry.Name}, *entry, deps, handler)
}

// invoke validates the call, builds the CommandContext and runs the
// handler. JSON-mode failures are written as envelopes so scripted
// callers always get parseable output.
func invoke(ctx context.Context, c *cli.Command, entry spec.Command, deps Dependencies, handler Handler) error {
	if handler == nil {
		return nil
	}
	if err := validateArgs(entry, c); err != nil {
		return err
	}
	if err := validateConstraints(entry, c); err != nil {
		return err
	}
	call := CommandContext{
		Context: ctx,
		Args:    positionalArgs(entry, c),
		Spec:    entry,
		Cmd:     c,
		Deps:    deps,
		JSON:    c.Bool("json"),
		Out:     deps.Stdout,
		ErrOut:  deps.Stderr,
		Stdin:   deps.Stdin,
	}
	if call.JSON && !entry.SupportsJSON() {
		return fmt.Errorf("%s has no --json output", entry.Name)
	}
	if err := confirmSideEffects(call, c); err != nil {
		return err
	}

	start := time.Now()
	err := handler(call)
	if err == nil {
		return nil
	}
	if !call.JSON {
		return err
	}
	meta := output.WithDuration(output.NewMeta(entry.ID, deps.Version), start)
	_ = output.WriteError(call.Out, meta, "command_failed", err.Error(), nil)
	return cli.Exit("", 1)
}

func argsUsage(args []spec.Arg) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		token := strings.ToUpper(arg.Name)
		if arg.Variadic {
			token += "..."
		}
		if !arg.Required {
			token = "[" + token + "]"
		}
		parts = append(parts, token)
	}
	return strings.Join(parts, " ")
}

func confirmSideEffects(call CommandContext, c *cli.Command) error {
	if !call.Spec.SideEffects && !call.Spec.Confirm {
		return nil
	}
	if c.Bool("yes") {
		return nil
	}
	ok, err := PromptConfirm(call.Stdin, call.ErrOut, fmt.Sprintf("Proceed with %s", call.Spec.ID))
	if err != nil {
		return err
	}
	if !ok {
		return cli.Exit("", 1)
	}
	return nil
}
