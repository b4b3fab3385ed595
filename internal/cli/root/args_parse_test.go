package root

import (
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/spec"
)

func parseInto(t *testing.T, cmd *cli.Command, raw []string) {
	t.Helper()
	for _, arg := range cmd.Arguments {
		var err error
		raw, err = arg.Parse(raw)
		if err != nil {
			t.Fatalf("arg parse: %v", err)
		}
	}
}

func TestPositionalArgsCollectsVariadicStations(t *testing.T) {
	cmdSpec := spec.Command{
		ID: "fetch",
		Args: []spec.Arg{{
			Name:     "stations",
			Required: true,
			Variadic: true,
		}},
	}
	cmd := &cli.Command{
		Name: "fetch",
		Arguments: []cli.Argument{
			&cli.StringArgs{Name: "stations", Min: 1, Max: -1},
		},
	}
	parseInto(t, cmd, []string{"KSFO", "KOAK"})

	got := positionalArgs(cmdSpec, cmd)
	if len(got) != 2 || got[0] != "KSFO" || got[1] != "KOAK" {
		t.Fatalf("positionalArgs = %v", got)
	}
}

func TestPositionalArgsMixedShape(t *testing.T) {
	cmdSpec := spec.Command{
		ID: "layout.save",
		Args: []spec.Arg{
			{Name: "name", Required: true},
			{Name: "tags", Variadic: true},
		},
	}
	cmd := &cli.Command{
		Name: "save",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
			&cli.StringArgs{Name: "tags", Min: 0, Max: -1},
		},
	}
	parseInto(t, cmd, []string{"bay-area", "coastal", "fog"})

	got := positionalArgs(cmdSpec, cmd)
	if len(got) != 3 || got[0] != "bay-area" || got[2] != "fog" {
		t.Fatalf("positionalArgs = %v", got)
	}
}

func TestValidateArgsRequiredVariadic(t *testing.T) {
	cmdSpec := spec.Command{
		ID: "fetch",
		Args: []spec.Arg{{
			Name:     "stations",
			Required: true,
			Variadic: true,
		}},
	}
	cmd := &cli.Command{
		Name: "fetch",
		Arguments: []cli.Argument{
			&cli.StringArgs{Name: "stations", Min: 1, Max: -1},
		},
	}
	if err := validateArgs(cmdSpec, cmd); err == nil {
		t.Fatalf("unparsed required variadic should fail")
	}
	parseInto(t, cmd, []string{"KSFO"})
	if err := validateArgs(cmdSpec, cmd); err != nil {
		t.Fatalf("supplied variadic should pass: %v", err)
	}
}
