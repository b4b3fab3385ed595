package update

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// go install stamps pseudo-versions like v0.3.1-0.20240101120000-abcdef123456.
var pseudoVersionRE = regexp.MustCompile(`^v?\d+\.\d+\.\d+-\d+\.\d{14}-[0-9a-f]{12}$`)

// NormalizeVersion trims space and a leading v so "v1.2.3" and "1.2.3"
// compare equal.
func NormalizeVersion(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "v")
}

// IsDevelopmentVersion reports whether raw names an unreleased build:
// empty, dev/devel/unknown, a -dirty stamp, or a go install
// pseudo-version. Such builds never report updates.
func IsDevelopmentVersion(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "dev", "devel", "unknown":
		return true
	}
	if strings.Contains(strings.ToLower(trimmed), "dirty") {
		return true
	}
	return pseudoVersionRE.MatchString(trimmed)
}

// CompareVersions returns -1, 0 or 1 ordering current against latest.
func CompareVersions(current, latest string) (int, error) {
	cur, err := parseSemver(current)
	if err != nil {
		return 0, err
	}
	lat, err := parseSemver(latest)
	if err != nil {
		return 0, err
	}
	return cur.Compare(lat), nil
}

func parseSemver(raw string) (*semver.Version, error) {
	normalized := NormalizeVersion(raw)
	if normalized == "" {
		return nil, semver.ErrInvalidSemVer
	}
	return semver.NewVersion(normalized)
}
