package userpath

import (
	"os"
	"path/filepath"
	"testing"
)

func homeDir(t *testing.T) string {
	t.Helper()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	return home
}

func TestExpandUser(t *testing.T) {
	home := homeDir(t)
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/layouts", filepath.Join(home, "layouts")},
		{"~/.config/metarbar/config.yml", filepath.Join(home, ".config", "metarbar", "config.yml")},
		{"/etc/metarbar.yml", "/etc/metarbar.yml"},
		{"layouts/bay.kdl", "layouts/bay.kdl"},
		{"~pilot", "~pilot"},
		{"/srv/~cache", "/srv/~cache"},
	}
	for _, tc := range cases {
		if got := ExpandUser(tc.in); got != tc.want {
			t.Fatalf("ExpandUser(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestShortenUser(t *testing.T) {
	home := homeDir(t)
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{home, "~"},
		{filepath.Join(home, "layouts"), filepath.Join("~", "layouts")},
		{"/usr/local/bin", "/usr/local/bin"},
		{"layouts/bay.kdl", "layouts/bay.kdl"},
		// A sibling that merely shares the home prefix is not inside it.
		{home + "x", home + "x"},
	}
	for _, tc := range cases {
		if got := ShortenUser(tc.in); got != tc.want {
			t.Fatalf("ShortenUser(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandShortenRoundTrip(t *testing.T) {
	home := homeDir(t)
	for _, display := range []string{"~", "~/profiles.toml", "~/layouts/coastal.kdl"} {
		if got := ShortenUser(ExpandUser(display)); got != display {
			t.Fatalf("%q expanded to %q and back to %q", display, ExpandUser(display), got)
		}
	}
	for _, abs := range []string{home, filepath.Join(home, "state")} {
		if got := ExpandUser(ShortenUser(abs)); got != abs {
			t.Fatalf("%q shortened to %q and back to %q", abs, ShortenUser(abs), got)
		}
	}
}
