package root

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/spec"
)

func buildArguments(args []spec.Arg) []cli.Argument {
	if len(args) == 0 {
		return nil
	}
	out := make([]cli.Argument, 0, len(args))
	for _, arg := range args {
		out = append(out, buildArgument(arg))
	}
	return out
}

func buildArgument(arg spec.Arg) cli.Argument {
	name := strings.TrimSpace(arg.Name)
	if arg.Variadic {
		min := 0
		if arg.Required {
			min = 1
		}
		return &cli.StringArgs{
			Name: name,
			Min:  min,
			Max:  -1,
		}
	}
	return &cli.StringArg{Name: name}
}

// positionalArgs collects the parsed positional values in spec order.
// Commands without declared args fall back to the raw argument slice.
func positionalArgs(cmdSpec spec.Command, cmd *cli.Command) []string {
	if cmd == nil {
		return nil
	}
	if len(cmdSpec.Args) == 0 {
		if parsed := cmd.Args(); parsed != nil {
			return parsed.Slice()
		}
		return nil
	}
	out := make([]string, 0, len(cmdSpec.Args))
	for _, argSpec := range cmdSpec.Args {
		name := strings.TrimSpace(argSpec.Name)
		if name == "" {
			continue
		}
		if argSpec.Variadic {
			out = append(out, cmd.StringArgs(name)...)
			continue
		}
		if value := cmd.StringArg(name); strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return out
}
