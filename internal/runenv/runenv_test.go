package runenv

import (
	"testing"
	"time"
)

func TestFetchTimeout(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", 15 * time.Second},
		{"go duration", "12s", 12 * time.Second},
		{"bare seconds", "9", 9 * time.Second},
		{"junk", "nope", 15 * time.Second},
		{"negative seconds", "-3", 15 * time.Second},
		{"zero duration", "0s", 15 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(FetchTimeoutEnv, tc.value)
			if got := FetchTimeout(); got != tc.want {
				t.Fatalf("FetchTimeout with %q = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestFreshConfigEnabled(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"0":     false,
		"off":   false,
		"FALSE": false,
		"no":    false,
		"1":     true,
		"yes":   true,
		"on":    true,
	}
	for value, want := range cases {
		t.Setenv(FreshConfigEnv, value)
		if got := FreshConfigEnabled(); got != want {
			t.Fatalf("FreshConfigEnabled with %q = %v, want %v", value, got, want)
		}
	}
}

func TestDirOverridesTrimWhitespace(t *testing.T) {
	t.Setenv(ConfigDirEnv, "  /tmp/metarbar-config  ")
	if got := ConfigDir(); got != "/tmp/metarbar-config" {
		t.Fatalf("ConfigDir = %q", got)
	}
	t.Setenv(RuntimeDirEnv, "")
	if got := RuntimeDir(); got != "" {
		t.Fatalf("RuntimeDir = %q, want empty", got)
	}
	t.Setenv(DataDirEnv, "/tmp/metarbar-data")
	if got := DataDir(); got != "/tmp/metarbar-data" {
		t.Fatalf("DataDir = %q", got)
	}
}
