package identity

import (
	"path/filepath"
	"strings"
)

const (
	BrandName = "MetarBar"
	// AppSlug is the canonical identifier for user-facing and on-disk state.
	// It intentionally matches the only supported CLI binary name.
	AppSlug = "metarbar"
	CLIName = "metarbar"

	ProjectConfigFileYML  = ".metarbar.yml"
	ProjectConfigFileYAML = ".metarbar.yaml"

	GlobalConfigFile   = "config.yml"
	GlobalProfilesFile = "profiles.toml"
	GlobalLayoutsDir   = "layouts"
)

var (
	InputAliases = []string{"mbar"}
)

func IsCLICommandToken(token string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(token))
	if trimmed == "" {
		return false
	}
	if trimmed == CLIName || trimmed == AppSlug {
		return true
	}
	for _, alias := range InputAliases {
		if trimmed == alias {
			return true
		}
	}
	return false
}

// NormalizeCLIName maps a user- or OS-provided program name onto the
// canonical CLI name. Unknown names fall back to CLIName.
func NormalizeCLIName(name string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == AppSlug {
		return AppSlug
	}
	return CLIName
}

// ResolveBinaryName derives the CLI name from argv, tolerating full paths
// and platform suffixes.
func ResolveBinaryName(args []string) string {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return CLIName
	}
	base := filepath.Base(strings.TrimSpace(args[0]))
	base = strings.TrimSuffix(base, ".exe")
	return NormalizeCLIName(base)
}
