// Package wrapcmd exposes the panel word-wrap as a standalone command.
package wrapcmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/cli/output"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/reflow"
)

// Register wires the wrap command into the registry.
func Register(reg *root.Registry) {
	reg.Register("wrap", runWrap)
}

func runWrap(ctx root.CommandContext) error {
	start := time.Now()
	width := ctx.Cmd.Int("width")
	policy, err := reflow.ParsePolicy(ctx.Cmd.String("policy"))
	if err != nil {
		return err
	}
	text, err := inputText(ctx)
	if err != nil {
		return err
	}
	wrapped, err := reflow.WrapWithOptions(text, width, reflow.Options{Policy: policy})
	if err != nil {
		return err
	}
	lines := reflow.SplitRows(wrapped, width)
	var rows []string
	if n := ctx.Cmd.Int("rows"); n > 0 {
		rows = reflow.SplitRows(reflow.Clip(wrapped, width*n), width)
	}

	if ctx.JSON {
		meta := output.WithDuration(output.NewMeta("wrap", ctx.Deps.Version), start)
		return output.WriteSuccess(ctx.Out, meta, output.WrapResult{
			Width:  width,
			Policy: policy.String(),
			Text:   wrapped,
			Lines:  lines,
			Rows:   rows,
		})
	}
	printed := lines
	if rows != nil {
		printed = rows
	}
	for _, line := range printed {
		fmt.Fprintln(ctx.Out, line)
	}
	return nil
}

// inputText takes the argument words, or stdin when none were given.
// Runs of whitespace collapse to single spaces so the wrap pass only
// ever sees space-separated words.
func inputText(ctx root.CommandContext) (string, error) {
	if len(ctx.Args) > 0 {
		text := strings.Join(strings.Fields(strings.Join(ctx.Args, " ")), " ")
		if text == "" {
			return "", errors.New("no text to wrap")
		}
		return text, nil
	}
	if ctx.Stdin == nil {
		return "", errors.New("no text given and stdin is empty")
	}
	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.Join(strings.Fields(string(data)), " ")
	if text == "" {
		return "", errors.New("no text given and stdin is empty")
	}
	return text, nil
}
