package output

import "time"

// ActionResult reports the outcome of a state-changing command.
type ActionResult struct {
	Action   string         `json:"action"`
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Paths    []string       `json:"paths,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// ReportSummary is one decoded METAR observation.
type ReportSummary struct {
	Station        string    `json:"station"`
	Raw            string    `json:"raw"`
	Observed       time.Time `json:"observed,omitempty"`
	AgeSec         int64     `json:"age_sec,omitempty"`
	TempC          float64   `json:"temp_c,omitempty"`
	DewpointC      float64   `json:"dewpoint_c,omitempty"`
	WindDirDegrees int       `json:"wind_dir_degrees,omitempty"`
	WindSpeedKt    int       `json:"wind_speed_kt,omitempty"`
	VisibilitySM   float64   `json:"visibility_sm,omitempty"`
	AltimeterInHg  float64   `json:"altim_in_hg,omitempty"`
	FlightCategory string    `json:"flight_category,omitempty"`
	Rows           []string  `json:"rows,omitempty"`
}

// StationError pairs a station with the failure it produced.
type StationError struct {
	Station string `json:"station"`
	Message string `json:"message"`
}

// FetchReport groups per-station fetch results.
type FetchReport struct {
	Reports []ReportSummary `json:"reports"`
	Errors  []StationError  `json:"errors,omitempty"`
}

// WrapResult is the reflow output for one width.
type WrapResult struct {
	Width  int      `json:"width"`
	Policy string   `json:"policy"`
	Text   string   `json:"text"`
	Lines  []string `json:"lines"`
	Rows   []string `json:"rows,omitempty"`
}

// StationInfo is one catalog entry.
type StationInfo struct {
	ICAO string `json:"icao"`
	Name string `json:"name"`
}

// StationList is a catalog search result.
type StationList struct {
	Query    string        `json:"query,omitempty"`
	Stations []StationInfo `json:"stations"`
	Total    int           `json:"total"`
}

// ConfigShow carries the resolved configuration.
type ConfigShow struct {
	Path   string `json:"path,omitempty"`
	Config any    `json:"config"`
}

// ConfigPath carries the config file location.
type ConfigPath struct {
	Path string `json:"path"`
}

// UpdateStatus is the result of a release check.
type UpdateStatus struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
	Development     bool   `json:"development,omitempty"`
	Channel         string `json:"channel,omitempty"`
	Command         string `json:"command,omitempty"`
}

// PanelSlot is the outcome of one station slot in a panel cycle.
type PanelSlot struct {
	Station string `json:"station"`
	Raw     string `json:"raw,omitempty"`
	Stale   bool   `json:"stale,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PanelCycle is the outcome of one full panel cycle.
type PanelCycle struct {
	Cols   int         `json:"cols"`
	Rows   int         `json:"rows"`
	OK     bool        `json:"ok"`
	Slots  []PanelSlot `json:"slots"`
	Screen []string    `json:"screen,omitempty"`
}

// DebugPaths lists the resolved runtime file locations.
type DebugPaths struct {
	RuntimeDir      string `json:"runtime_dir"`
	DataDir         string `json:"data_dir"`
	ConfigDir       string `json:"config_dir"`
	ConfigPath      string `json:"config_path"`
	LayoutsDir      string `json:"layouts_dir"`
	ProfilesPath    string `json:"profiles_path"`
	DashboardPath   string `json:"dashboard_path,omitempty"`
	UpdateStatePath string `json:"update_state_path,omitempty"`
	FreshConfig     bool   `json:"fresh_config"`
}
