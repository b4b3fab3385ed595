package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/regenrek/metarbar/internal/atomicfile"
	"github.com/regenrek/metarbar/internal/identity"
)

const defaultGlobalConfigContent = `# metarbar - Global Configuration
# https://github.com/regenrek/metarbar

panel:
  station: KSFO
  cols: 16
  rows: 2
  # refresh_sec: 300
  # retry_sec: 30
  # long_words: keep  # keep | truncate | error
  # Render several stations at once from a KDL layout:
  # dashboard: ~/.config/metarbar/layouts/dashboard.kdl

# Connectivity checking before each fetch cycle
# link:
#   check_url: http://connectivitycheck.gstatic.com/generate_204
#   connect_cmd: "nmcli connection up ${WIFI_SSID:-Home}"
#   delay_sec: 2
#   max_attempts: 5

# Weather data source
# fetch:
#   base_url: https://aviationweather.gov/api/data/metar
#   user_agent: metarbar/panel
#   hours: 2
#   max_kb: 64
#   timeout_sec: 15

# Release update checks
# update:
#   check: true
#   interval_hours: 24

# Variables available as ${NAME} in connect_cmd and dashboard paths
# vars:
#   WIFI_SSID: Home

# logging:
#   level: info
#   sink: file
#   file: ~/.local/share/metarbar/logs/metarbar.log
`

// DefaultGlobalConfigContent returns the default global config template text.
func DefaultGlobalConfigContent() string {
	return defaultGlobalConfigContent
}

// EnsureDefaultGlobalConfig creates the default global config if missing.
func EnsureDefaultGlobalConfig(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is empty")
	}
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config %q: %w", path, err)
	}
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	layoutsDir := filepath.Join(configDir, identity.GlobalLayoutsDir)
	if err := os.MkdirAll(layoutsDir, 0o755); err != nil {
		return fmt.Errorf("create layouts dir: %w", err)
	}
	if err := atomicfile.Save(path, []byte(defaultGlobalConfigContent), 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}
