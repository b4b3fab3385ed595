// Package config loads and writes MetarBar's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/atomicfile"
	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/logging"
	"github.com/regenrek/metarbar/internal/runenv"
	"gopkg.in/yaml.v3"
)

// PanelSection configures the display loop.
type PanelSection struct {
	Station     string `yaml:"station,omitempty" json:"station,omitempty"`
	Cols        int    `yaml:"cols,omitempty" json:"cols,omitempty"`
	Rows        int    `yaml:"rows,omitempty" json:"rows,omitempty"`
	RefreshSec  int    `yaml:"refresh_sec,omitempty" json:"refresh_sec,omitempty"`
	RetrySec    int    `yaml:"retry_sec,omitempty" json:"retry_sec,omitempty"`
	LongWords   string `yaml:"long_words,omitempty" json:"long_words,omitempty"` // keep | truncate | error
	StartMarker string `yaml:"start_marker,omitempty" json:"start_marker,omitempty"`
	EndMarker   string `yaml:"end_marker,omitempty" json:"end_marker,omitempty"`
	// Dashboard points at a KDL layout file; when set it overrides Station.
	Dashboard string `yaml:"dashboard,omitempty" json:"dashboard,omitempty"`
}

// LinkSection configures connectivity checking and recovery.
type LinkSection struct {
	CheckURL    string `yaml:"check_url,omitempty" json:"check_url,omitempty"`
	ConnectCmd  string `yaml:"connect_cmd,omitempty" json:"connect_cmd,omitempty"`
	DelaySec    int    `yaml:"delay_sec,omitempty" json:"delay_sec,omitempty"`
	MaxAttempts int    `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
}

// FetchSection configures the weather data client.
type FetchSection struct {
	BaseURL    string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	UserAgent  string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Hours      int    `yaml:"hours,omitempty" json:"hours,omitempty"`
	MaxKB      int    `yaml:"max_kb,omitempty" json:"max_kb,omitempty"`
	TimeoutSec int    `yaml:"timeout_sec,omitempty" json:"timeout_sec,omitempty"`
}

// UpdateSection configures release update checks.
type UpdateSection struct {
	Check         *bool `yaml:"check,omitempty" json:"check,omitempty"`
	IntervalHours int   `yaml:"interval_hours,omitempty" json:"interval_hours,omitempty"`
}

// Config is the root configuration structure for MetarBar.
type Config struct {
	Panel   PanelSection      `yaml:"panel,omitempty" json:"panel,omitempty"`
	Link    LinkSection       `yaml:"link,omitempty" json:"link,omitempty"`
	Fetch   FetchSection      `yaml:"fetch,omitempty" json:"fetch,omitempty"`
	Update  UpdateSection     `yaml:"update,omitempty" json:"update,omitempty"`
	Vars    map[string]string `yaml:"vars,omitempty" json:"vars,omitempty"`
	Logging logging.Config    `yaml:"logging,omitempty" json:"logging,omitempty"`
}

// LocalConfig is the schema for .metarbar.yml in working directories. It
// pins a station or dashboard for whoever runs the panel from that
// directory.
type LocalConfig struct {
	Station   string            `yaml:"station,omitempty"`
	Dashboard string            `yaml:"dashboard,omitempty"`
	Vars      map[string]string `yaml:"vars,omitempty"`
}

// Refresh returns the refresh interval, zero when unset.
func (p PanelSection) Refresh() time.Duration {
	return time.Duration(p.RefreshSec) * time.Second
}

// Retry returns the retry interval, zero when unset.
func (p PanelSection) Retry() time.Duration {
	return time.Duration(p.RetrySec) * time.Second
}

// Delay returns the reconnect settle delay, zero when unset.
func (l LinkSection) Delay() time.Duration {
	return time.Duration(l.DelaySec) * time.Second
}

// Timeout returns the per-fetch deadline, zero when unset.
func (f FetchSection) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// MaxBytes converts the configured cap to bytes, zero when unset.
func (f FetchSection) MaxBytes() int64 {
	if f.MaxKB <= 0 {
		return 0
	}
	return int64(f.MaxKB) * 1024
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfig writes configuration to a YAML file.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := atomicfile.Save(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// LoadLocal reads a .metarbar.yml from a directory.
func LoadLocal(dir string) (*LocalConfig, error) {
	path := filepath.Join(dir, identity.ProjectConfigFileYML)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			path = filepath.Join(dir, identity.ProjectConfigFileYAML)
			data, err = os.ReadFile(path)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return &cfg, nil
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandVars replaces ${VAR} and ${VAR:-default} in a string. Provided vars
// win over the environment; the default applies when both are empty. $HOME
// and a leading ~ expand to the home directory.
func ExpandVars(s string, vars map[string]string) string {
	result := varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultVal := ""
		if len(parts) > 2 {
			defaultVal = parts[2]
		}
		if val, ok := vars[name]; ok && val != "" {
			return val
		}
		if val := os.Getenv(name); val != "" {
			return val
		}
		return defaultVal
	})

	if home, err := os.UserHomeDir(); err == nil {
		result = strings.ReplaceAll(result, "$HOME", home)
		if strings.HasPrefix(result, "~/") {
			result = filepath.Join(home, result[2:])
		} else if result == "~" {
			result = home
		}
	}

	return result
}

// DefaultConfigPath returns the default global config path.
func DefaultConfigPath() (string, error) {
	if dir := runenv.ConfigDir(); dir != "" {
		return filepath.Join(dir, identity.GlobalConfigFile), nil
	}
	if runenv.FreshConfigEnabled() {
		return "", nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", identity.AppSlug, identity.GlobalConfigFile), nil
}

// DefaultLayoutsDir returns the default dashboard layouts directory.
func DefaultLayoutsDir() (string, error) {
	if dir := runenv.ConfigDir(); dir != "" {
		return filepath.Join(dir, identity.GlobalLayoutsDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", identity.AppSlug, identity.GlobalLayoutsDir), nil
}

// DefaultDashboardPath returns the default dashboard layout file path.
func DefaultDashboardPath() (string, error) {
	dir, err := DefaultLayoutsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dashboard.kdl"), nil
}
