package root

import (
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/spec"
)

func TestBuildFlagsEmpty(t *testing.T) {
	flags, err := buildFlags(nil)
	if err != nil {
		t.Fatalf("buildFlags error: %v", err)
	}
	if flags != nil {
		t.Fatalf("no entries should yield no flags, got %v", flags)
	}
}

func TestBuildFlagCarriesDefaults(t *testing.T) {
	cases := []struct {
		entry spec.Flag
		check func(t *testing.T, flag cli.Flag)
	}{
		{
			entry: spec.Flag{Name: "plain", Type: "bool", Default: true},
			check: func(t *testing.T, flag cli.Flag) {
				if !flag.(*cli.BoolFlag).Value {
					t.Fatalf("bool default lost")
				}
			},
		},
		{
			entry: spec.Flag{Name: "station", Type: "string", Default: "KSFO"},
			check: func(t *testing.T, flag cli.Flag) {
				if got := flag.(*cli.StringFlag).Value; got != "KSFO" {
					t.Fatalf("string default = %q", got)
				}
			},
		},
		{
			entry: spec.Flag{Name: "cols", Type: "int", Default: int64(80)},
			check: func(t *testing.T, flag cli.Flag) {
				if got := flag.(*cli.IntFlag).Value; got != 80 {
					t.Fatalf("int default = %d", got)
				}
			},
		},
		{
			entry: spec.Flag{Name: "scale", Type: "float", Default: 1.5},
			check: func(t *testing.T, flag cli.Flag) {
				if got := flag.(*cli.FloatFlag).Value; got != 1.5 {
					t.Fatalf("float default = %v", got)
				}
			},
		},
		{
			entry: spec.Flag{Name: "refresh", Type: "duration", Default: "5m"},
			check: func(t *testing.T, flag cli.Flag) {
				if got := flag.(*cli.DurationFlag).Value; got != 5*time.Minute {
					t.Fatalf("duration default = %v", got)
				}
			},
		},
		{
			entry: spec.Flag{Name: "stations", Type: "string_list", Default: []any{"KSFO", "KOAK"}},
			check: func(t *testing.T, flag cli.Flag) {
				got := flag.(*cli.StringSliceFlag).Value
				if len(got) != 2 || got[0] != "KSFO" {
					t.Fatalf("string_list default = %v", got)
				}
			},
		},
	}
	for _, tc := range cases {
		flag, err := buildFlag(tc.entry)
		if err != nil {
			t.Fatalf("buildFlag(%s) error: %v", tc.entry.Name, err)
		}
		tc.check(t, flag)
	}
}

func TestBuildFlagEnumValidators(t *testing.T) {
	flag, err := buildFlag(spec.Flag{Name: "units", Type: "enum", Enum: []string{"knots", "mps"}, Default: "knots"})
	if err != nil {
		t.Fatalf("buildFlag enum error: %v", err)
	}
	strFlag := flag.(*cli.StringFlag)
	if err := strFlag.Validator("mps"); err != nil {
		t.Fatalf("listed value should pass: %v", err)
	}
	if err := strFlag.Validator("kmh"); err == nil {
		t.Fatalf("unlisted value should fail the validator")
	}

	flag, err = buildFlag(spec.Flag{Name: "sections", Type: "string_list", Enum: []string{"wind", "clouds"}})
	if err != nil {
		t.Fatalf("buildFlag string_list enum error: %v", err)
	}
	listFlag := flag.(*cli.StringSliceFlag)
	if err := listFlag.Validator([]string{"wind", "clouds"}); err != nil {
		t.Fatalf("listed values should pass: %v", err)
	}
	if err := listFlag.Validator([]string{"wind", "pressure"}); err == nil {
		t.Fatalf("one unlisted value should fail the whole slice")
	}
}

func TestBuildFlagRejectsBadEntries(t *testing.T) {
	if _, err := buildFlag(spec.Flag{Name: "  ", Type: "bool"}); err == nil {
		t.Fatalf("blank name should fail")
	}
	if _, err := buildFlag(spec.Flag{Name: "x", Type: "tristate"}); err == nil {
		t.Fatalf("unknown type should fail")
	}
}

func TestDefaultCoercions(t *testing.T) {
	if asBool("yes") {
		t.Fatalf("non-bool should coerce to false")
	}
	if got := asString(123); got != "" {
		t.Fatalf("non-string should coerce to empty, got %q", got)
	}
	if got := asInt(3.7); got != 3 {
		t.Fatalf("asInt(3.7) = %d", got)
	}
	if got := asFloat(int64(2)); got != 2 {
		t.Fatalf("asFloat(int64) = %v", got)
	}
	if got := asDuration("not-a-duration"); got != 0 {
		t.Fatalf("bad duration should coerce to zero, got %v", got)
	}
	if got := asDuration(90 * time.Second); got != 90*time.Second {
		t.Fatalf("native duration should pass through, got %v", got)
	}
	if got := asStrings([]any{"KSFO", 7}); len(got) != 1 || got[0] != "KSFO" {
		t.Fatalf("asStrings should drop non-strings, got %v", got)
	}
}
