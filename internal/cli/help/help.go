// Package help backs the help command with urfave's root usage screen.
package help

import (
	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/root"
)

// Register wires the help handler.
func Register(reg *root.Registry) {
	reg.Register("help", runHelp)
}

func runHelp(ctx root.CommandContext) error {
	return cli.ShowRootCommandHelp(ctx.Cmd)
}
