// Package version prints the build identity.
package version

import (
	"fmt"

	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/identity"
)

// Register wires the version handler.
func Register(reg *root.Registry) {
	reg.Register("version", runVersion)
}

// runVersion keeps the "name version" shape that --version prints, so
// both surfaces stay grep-compatible.
func runVersion(ctx root.CommandContext) error {
	_, err := fmt.Fprintf(ctx.Out, "%s %s\n", identity.CLIName, ctx.Deps.Version)
	return err
}
