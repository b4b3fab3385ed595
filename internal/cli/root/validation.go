package root

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/spec"
)

// validateArgs rejects calls that omit a required positional. The
// parser itself only enforces Min counts on variadic slots, so single
// required args need an explicit check.
func validateArgs(cmdSpec spec.Command, cmd *cli.Command) error {
	for _, argSpec := range cmdSpec.Args {
		if !argSpec.Required || strings.TrimSpace(argSpec.Name) == "" {
			continue
		}
		if !argSupplied(argSpec, cmd) {
			return fmt.Errorf("missing argument %q", argSpec.Name)
		}
	}
	return nil
}

// argSupplied treats blank-only values as absent.
func argSupplied(argSpec spec.Arg, cmd *cli.Command) bool {
	name := strings.TrimSpace(argSpec.Name)
	if argSpec.Variadic {
		for _, value := range cmd.StringArgs(name) {
			if strings.TrimSpace(value) != "" {
				return true
			}
		}
		return false
	}
	return strings.TrimSpace(cmd.StringArg(name)) != ""
}

func validateConstraints(cmdSpec spec.Command, cmd *cli.Command) error {
	for _, constraint := range cmdSpec.Constraints {
		if err := checkConstraint(constraint, cmdSpec, cmd); err != nil {
			return err
		}
	}
	return nil
}

func checkConstraint(constraint spec.Constraint, cmdSpec spec.Command, cmd *cli.Command) error {
	fields := constraint.Fields
	if len(fields) == 0 {
		return nil
	}
	supplied := make([]bool, len(fields))
	count := 0
	for i, field := range fields {
		if fieldPresent(field, cmdSpec, cmd) {
			supplied[i] = true
			count++
		}
	}
	list := strings.Join(fields, ", ")
	switch strings.TrimSpace(constraint.Type) {
	case "exactly_one":
		if count != 1 {
			return fmt.Errorf("pass exactly one of %s", list)
		}
	case "at_least_one":
		if count == 0 {
			return fmt.Errorf("pass at least one of %s", list)
		}
	case "requires":
		if supplied[0] && count != len(fields) {
			return fmt.Errorf("%s also needs %s", fields[0], strings.Join(fields[1:], ", "))
		}
	case "excludes":
		if count > 1 {
			return fmt.Errorf("%s cannot be combined", list)
		}
	}
	return nil
}

// fieldPresent resolves a constraint field against the command's
// positionals first, then its flags.
func fieldPresent(field string, cmdSpec spec.Command, cmd *cli.Command) bool {
	field = strings.TrimSpace(field)
	if field == "" {
		return false
	}
	for _, argSpec := range cmdSpec.Args {
		if argSpec.Name == field {
			return argSupplied(argSpec, cmd)
		}
	}
	return cmd.IsSet(field)
}
