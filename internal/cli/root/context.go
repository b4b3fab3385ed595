package root

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/spec"
)

// CommandContext carries everything a handler needs for one
// invocation: the parsed command, its spec entry, resolved
// positionals, and the process streams. Handlers write to Out/ErrOut
// rather than os.Stdout so tests can capture output.
type CommandContext struct {
	Context context.Context
	Args    []string
	Spec    spec.Command
	Cmd     *cli.Command
	Deps    Dependencies
	JSON    bool
	Out     io.Writer
	ErrOut  io.Writer
	Stdin   io.Reader
	WorkDir string
}
