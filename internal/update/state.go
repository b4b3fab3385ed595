package update

import "time"

// State is the persisted release-check record (state.json in the data
// directory).
type State struct {
	CurrentVersion  string  `json:"current_version"`
	LatestVersion   string  `json:"latest_version,omitempty"`
	SkippedVersion  string  `json:"skipped_version,omitempty"`
	LastCheckUnixMs int64   `json:"last_check_unix_ms,omitempty"`
	Channel         Channel `json:"channel,omitempty"`
}

// UpdateAvailable reports whether LatestVersion is ahead of the running
// build. Development builds never count as behind.
func (s State) UpdateAvailable() bool {
	if IsDevelopmentVersion(s.CurrentVersion) {
		return false
	}
	cmp, err := CompareVersions(s.CurrentVersion, s.LatestVersion)
	return err == nil && cmp < 0
}

// IsSkipped reports whether the user waved off the latest version by
// setting skipped_version in the state file.
func (s State) IsSkipped() bool {
	if s.SkippedVersion == "" || s.LatestVersion == "" {
		return false
	}
	return NormalizeVersion(s.SkippedVersion) == NormalizeVersion(s.LatestVersion)
}

// MarkChecked stamps the last-check time.
func (s *State) MarkChecked(now time.Time) {
	if s != nil {
		s.LastCheckUnixMs = now.UnixMilli()
	}
}
