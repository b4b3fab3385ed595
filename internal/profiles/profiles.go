// Package profiles stores named station groups in profiles.toml.
package profiles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/runenv"
)

const (
	defaultProfileName = "home"
	defaultUnits       = "metric"
)

var defaultStations = []string{"KSFO"}

// Config represents profiles.toml.
type Config struct {
	Default  string             `toml:"default"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile is a named station group with display preferences.
type Profile struct {
	Stations []string `toml:"stations"`
	Units    string   `toml:"units"` // metric | imperial
	ShowAge  *bool    `toml:"show_age"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Default: defaultProfileName,
		Profiles: map[string]Profile{
			defaultProfileName: {
				Stations: append([]string(nil), defaultStations...),
				Units:    defaultUnits,
			},
		},
	}
}

// Active resolves a profile by name, falling back to the default profile.
func (c Config) Active(name string) (Profile, bool) {
	key := strings.TrimSpace(name)
	if key == "" {
		key = strings.TrimSpace(c.Default)
	}
	if key == "" {
		key = defaultProfileName
	}
	profile, ok := c.Profiles[key]
	return profile, ok
}

// Names lists profile names sorted lexically.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

// NormalizedStations returns the profile's stations upper-cased with blanks
// removed.
func (p Profile) NormalizedStations() []string {
	out := make([]string, 0, len(p.Stations))
	for _, s := range p.Stations {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DefaultPath returns the default profiles path.
func DefaultPath() (string, error) {
	if dir := runenv.ConfigDir(); dir != "" {
		return filepath.Join(dir, identity.GlobalProfilesFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", identity.AppSlug, identity.GlobalProfilesFile), nil
}

// Loader caches profile values and reloads when the file changes.
type Loader struct {
	path     string
	lastRead fileState
	cached   Config
}

type fileState struct {
	modTime time.Time
	size    int64
}

// NewLoader creates a profiles loader for the provided path.
func NewLoader(path string) *Loader {
	return &Loader{
		path:   strings.TrimSpace(path),
		cached: Defaults(),
	}
}

// Load returns the cached config, reloading if the file changed.
func (l *Loader) Load() (Config, error) {
	if l == nil {
		return Defaults(), errors.New("nil loader")
	}
	path := strings.TrimSpace(l.path)
	if path == "" {
		return Defaults(), errors.New("empty profiles path")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.cached = Defaults()
			l.lastRead = fileState{}
			return l.cached, nil
		}
		return Defaults(), err
	}
	state := fileState{modTime: info.ModTime(), size: info.Size()}
	if state == l.lastRead {
		return l.cached, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), err
	}
	applyDefaults(&cfg)
	l.cached = cfg
	l.lastRead = state
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(cfg.Default) == "" {
		cfg.Default = defaultProfileName
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	if _, ok := cfg.Profiles[cfg.Default]; !ok && cfg.Default == defaultProfileName {
		cfg.Profiles[defaultProfileName] = Profile{
			Stations: append([]string(nil), defaultStations...),
			Units:    defaultUnits,
		}
	}
	for name, profile := range cfg.Profiles {
		if strings.TrimSpace(profile.Units) == "" {
			profile.Units = defaultUnits
		}
		cfg.Profiles[name] = profile
	}
}
