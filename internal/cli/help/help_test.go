package help

import (
	"bytes"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/root"
)

func TestRegisterBindsHelpHandler(t *testing.T) {
	reg := root.NewRegistry()
	Register(reg)
	if _, ok := reg.HandlerFor("help"); !ok {
		t.Fatal("help handler not registered")
	}
	// A nil registry must not panic.
	Register(nil)
}

func TestRunHelpShowsRootUsage(t *testing.T) {
	var out bytes.Buffer
	cmd := &cli.Command{
		Name:      "metarbar",
		Usage:     "aviation weather panel",
		Writer:    &out,
		ErrWriter: &out,
		Commands: []*cli.Command{
			{Name: "panel", Usage: "run the live panel"},
			{Name: "fetch", Usage: "fetch one observation"},
		},
	}
	ctx := root.CommandContext{Cmd: cmd, Out: &out, ErrOut: &out}
	if err := runHelp(ctx); err != nil {
		t.Fatalf("runHelp error: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "USAGE:") {
		t.Fatalf("usage section missing:\n%s", text)
	}
	for _, name := range []string{"panel", "fetch"} {
		if !strings.Contains(text, name) {
			t.Fatalf("command %q missing from help:\n%s", name, text)
		}
	}
}
