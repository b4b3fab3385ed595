package root

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/spec"
)

// buildFlags turns spec flag entries into urfave/cli flags.
func buildFlags(entries []spec.Flag) ([]cli.Flag, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]cli.Flag, 0, len(entries))
	for _, entry := range entries {
		flag, err := buildFlag(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, flag)
	}
	return out, nil
}

// flagBase carries the fields every flag type shares.
type flagBase struct {
	name     string
	aliases  []string
	usage    string
	required bool
	hidden   bool
	sources  cli.ValueSourceChain
}

func buildFlag(entry spec.Flag) (cli.Flag, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, errors.New("flag entry has no name")
	}
	base := flagBase{
		name:     name,
		aliases:  entry.Aliases,
		usage:    entry.Description,
		required: entry.Required,
		hidden:   entry.Hidden,
	}
	if env := strings.TrimSpace(entry.Env); env != "" {
		base.sources = cli.EnvVars(env)
	}

	switch strings.TrimSpace(entry.Type) {
	case "bool":
		return &cli.BoolFlag{
			Name: base.name, Aliases: base.aliases, Usage: base.usage,
			Required: base.required, Hidden: base.hidden, Sources: base.sources,
			Value: asBool(entry.Default),
		}, nil
	case "string", "path", "enum":
		flag := &cli.StringFlag{
			Name: base.name, Aliases: base.aliases, Usage: base.usage,
			Required: base.required, Hidden: base.hidden, Sources: base.sources,
			Value: asString(entry.Default),
		}
		if len(entry.Enum) > 0 {
			flag.Validator = enumCheck(entry.Enum)
		}
		return flag, nil
	case "int":
		return &cli.IntFlag{
			Name: base.name, Aliases: base.aliases, Usage: base.usage,
			Required: base.required, Hidden: base.hidden, Sources: base.sources,
			Value: asInt(entry.Default),
		}, nil
	case "float":
		return &cli.FloatFlag{
			Name: base.name, Aliases: base.aliases, Usage: base.usage,
			Required: base.required, Hidden: base.hidden, Sources: base.sources,
			Value: asFloat(entry.Default),
		}, nil
	case "duration":
		return &cli.DurationFlag{
			Name: base.name, Aliases: base.aliases, Usage: base.usage,
			Required: base.required, Hidden: base.hidden, Sources: base.sources,
			Value: asDuration(entry.Default),
		}, nil
	case "string_list":
		flag := &cli.StringSliceFlag{
			Name: base.name, Aliases: base.aliases, Usage: base.usage,
			Required: base.required, Hidden: base.hidden, Sources: base.sources,
			Value: asStrings(entry.Default),
		}
		if len(entry.Enum) > 0 {
			flag.Validator = enumCheckEach(entry.Enum)
		}
		return flag, nil
	}
	return nil, fmt.Errorf("flag %s: unsupported type %q", name, entry.Type)
}

func enumCheck(allowed []string) func(string) error {
	return func(value string) error {
		for _, candidate := range allowed {
			if value == candidate {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of: %s", value, strings.Join(allowed, ", "))
	}
}

func enumCheckEach(allowed []string) func([]string) error {
	check := enumCheck(allowed)
	return func(values []string) error {
		for _, value := range values {
			if err := check(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// The as* helpers coerce YAML default values, which decode as
// interface{} with whatever concrete type the parser picked.

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func asDuration(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		if parsed, err := time.ParseDuration(d); err == nil {
			return parsed
		}
	}
	return 0
}

func asStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
