package profiles

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.toml")
	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Default != defaultProfileName {
		t.Fatalf("Default=%q want %q", cfg.Default, defaultProfileName)
	}
	profile, ok := cfg.Active("")
	if !ok {
		t.Fatalf("Active(\"\") missing default profile")
	}
	if len(profile.Stations) != 1 || profile.Stations[0] != "KSFO" {
		t.Fatalf("Stations=%v want [KSFO]", profile.Stations)
	}
	if profile.Units != defaultUnits {
		t.Fatalf("Units=%q want %q", profile.Units, defaultUnits)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.toml")
	data := []byte(`
default = "travel"

[profiles.travel]
stations = ["egll", " lfpg "]
units = "imperial"
show_age = true

[profiles.home]
stations = ["KSFO", "KOAK"]
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	profile, ok := cfg.Active("")
	if !ok {
		t.Fatalf("Active(\"\") missing travel profile")
	}
	if profile.Units != "imperial" {
		t.Fatalf("Units=%q", profile.Units)
	}
	if profile.ShowAge == nil || !*profile.ShowAge {
		t.Fatalf("ShowAge=%v want true", profile.ShowAge)
	}
	got := profile.NormalizedStations()
	if len(got) != 2 || got[0] != "EGLL" || got[1] != "LFPG" {
		t.Fatalf("NormalizedStations=%v", got)
	}

	home, ok := cfg.Active("home")
	if !ok {
		t.Fatalf("Active(home) missing")
	}
	if home.Units != defaultUnits {
		t.Fatalf("home Units=%q want default applied", home.Units)
	}

	names := cfg.Names()
	if len(names) != 2 || names[0] != "home" || names[1] != "travel" {
		t.Fatalf("Names=%v want sorted [home travel]", names)
	}
}

func TestLoadCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.toml")
	if err := os.WriteFile(path, []byte("default = \"home\"\n"), 0o600); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	loader := NewLoader(path)
	first, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	second, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() second error: %v", err)
	}
	if first.Default != second.Default {
		t.Fatalf("cached load changed: %q vs %q", first.Default, second.Default)
	}
}

func TestLoadNilAndEmpty(t *testing.T) {
	var nilLoader *Loader
	if _, err := nilLoader.Load(); err == nil {
		t.Fatalf("nil loader Load() succeeded, want error")
	}
	if _, err := NewLoader("  ").Load(); err == nil {
		t.Fatalf("empty path Load() succeeded, want error")
	}
}

func TestDefaultPathHonorsConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("METARBAR_CONFIG_DIR", dir)
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	if path != filepath.Join(dir, "profiles.toml") {
		t.Fatalf("path = %q, want under %q", path, dir)
	}
}
