package panelcmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/dashboard"
	"github.com/regenrek/metarbar/internal/panel"
	"github.com/regenrek/metarbar/internal/profiles"
	"github.com/regenrek/metarbar/internal/reflow"
)

// inputs captures the panel flags before resolution.
type inputs struct {
	Station    string
	Dashboard  string
	Profile    string
	Cols       int
	ColsSet    bool
	Rows       int
	RowsSet    bool
	Refresh    time.Duration
	RefreshSet bool
	Retry      time.Duration
	RetrySet   bool
	LongWords  string
}

// settings is the fully resolved panel run configuration.
type settings struct {
	Panel   panel.Config
	Layout  *dashboard.Layout
	Fetch   config.FetchSection
	Link    config.LinkSection
	Update  config.UpdateSection
	Vars    map[string]string
	Units   string
	ShowAge *bool
}

// geometry returns the display dimensions the run needs.
func (s settings) geometry() (int, int) {
	if s.Layout != nil {
		return s.Layout.Cols, s.Layout.Rows
	}
	return s.Panel.Cols, s.Panel.Rows
}

func flagInputs(ctx root.CommandContext) inputs {
	return inputs{
		Station:    strings.TrimSpace(ctx.Cmd.String("station")),
		Dashboard:  strings.TrimSpace(ctx.Cmd.String("dashboard")),
		Profile:    strings.TrimSpace(ctx.Cmd.String("profile")),
		Cols:       ctx.Cmd.Int("cols"),
		ColsSet:    ctx.Cmd.IsSet("cols"),
		Rows:       ctx.Cmd.Int("rows"),
		RowsSet:    ctx.Cmd.IsSet("rows"),
		Refresh:    ctx.Cmd.Duration("refresh"),
		RefreshSet: ctx.Cmd.IsSet("refresh"),
		Retry:      ctx.Cmd.Duration("retry"),
		RetrySet:   ctx.Cmd.IsSet("retry"),
		LongWords:  strings.TrimSpace(ctx.Cmd.String("long-words")),
	}
}

func resolveSettings(ctx root.CommandContext) (settings, error) {
	global, err := loadGlobalConfig()
	if err != nil {
		return settings{}, err
	}
	local, err := loadLocalConfig(ctx)
	if err != nil {
		return settings{}, err
	}
	return resolve(flagInputs(ctx), global, local, loadProfile, dashboard.Load)
}

// loadGlobalConfig tolerates a missing config file; a present but broken
// one is an error the user needs to see.
func loadGlobalConfig() (*config.Config, error) {
	path, err := config.DefaultConfigPath()
	if err != nil || path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &config.Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func loadLocalConfig(ctx root.CommandContext) (*config.LocalConfig, error) {
	dir, err := root.ResolveWorkDir(ctx)
	if err != nil {
		return nil, err
	}
	local, err := config.LoadLocal(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return local, nil
}

func loadProfile(name string) (profiles.Profile, error) {
	path, err := profiles.DefaultPath()
	if err != nil {
		return profiles.Profile{}, err
	}
	cfg, err := profiles.NewLoader(path).Load()
	if err != nil {
		return profiles.Profile{}, err
	}
	profile, ok := cfg.Active(name)
	if !ok {
		return profiles.Profile{}, fmt.Errorf("unknown profile %q (have: %s)", name, strings.Join(cfg.Names(), ", "))
	}
	return profile, nil
}

// resolve merges flag, profile, local, and global settings. Flags win over
// the profile, the profile over .metarbar.yml, and that over the global
// config.
func resolve(
	in inputs,
	global *config.Config,
	local *config.LocalConfig,
	profileFn func(string) (profiles.Profile, error),
	layoutFn func(string) (*dashboard.Layout, error),
) (settings, error) {
	if global == nil {
		global = &config.Config{}
	}
	s := settings{
		Fetch:  global.Fetch,
		Link:   global.Link,
		Update: global.Update,
		Vars:   mergedVars(global, local),
	}

	pc := panel.Config{
		Cols:        global.Panel.Cols,
		Rows:        global.Panel.Rows,
		Refresh:     global.Panel.Refresh(),
		Retry:       global.Panel.Retry(),
		StartMarker: global.Panel.StartMarker,
		EndMarker:   global.Panel.EndMarker,
	}
	if in.ColsSet {
		pc.Cols = in.Cols
	}
	if in.RowsSet {
		pc.Rows = in.Rows
	}
	if in.RefreshSet {
		pc.Refresh = in.Refresh
	}
	if in.RetrySet {
		pc.Retry = in.Retry
	}
	policyName := global.Panel.LongWords
	if in.LongWords != "" {
		policyName = in.LongWords
	}
	policy, err := reflow.ParsePolicy(policyName)
	if err != nil {
		return settings{}, err
	}
	pc.Policy = policy

	loadLayout := func(path string) error {
		layout, err := layoutFn(config.ExpandVars(path, s.Vars))
		if err != nil {
			return err
		}
		s.Layout = layout
		pc.Cols = layout.Cols
		pc.Rows = layout.Rows
		return nil
	}

	switch {
	case in.Dashboard != "":
		if err := loadLayout(in.Dashboard); err != nil {
			return settings{}, err
		}
	case in.Station != "":
		pc.Station = in.Station
	case in.Profile != "":
		profile, err := profileFn(in.Profile)
		if err != nil {
			return settings{}, err
		}
		stations := profile.NormalizedStations()
		if len(stations) == 0 {
			return settings{}, fmt.Errorf("profile %q has no stations", in.Profile)
		}
		s.Units = profile.Units
		s.ShowAge = profile.ShowAge
		if len(stations) == 1 {
			pc.Station = stations[0]
		} else {
			pc = pc.Normalize()
			rows := pc.Rows
			// Without an explicit height, give every station the
			// canonical two display lines.
			if !in.RowsSet && global.Panel.Rows <= 0 {
				rows = panel.DefaultRows * len(stations)
			}
			layout, err := dashboard.Stack(stations, pc.Cols, rows)
			if err != nil {
				return settings{}, err
			}
			s.Layout = layout
			pc.Cols = layout.Cols
			pc.Rows = layout.Rows
		}
	case local != nil && strings.TrimSpace(local.Dashboard) != "":
		if err := loadLayout(local.Dashboard); err != nil {
			return settings{}, err
		}
	case local != nil && strings.TrimSpace(local.Station) != "":
		pc.Station = local.Station
	case strings.TrimSpace(global.Panel.Dashboard) != "":
		if err := loadLayout(global.Panel.Dashboard); err != nil {
			return settings{}, err
		}
	case strings.TrimSpace(global.Panel.Station) != "":
		pc.Station = global.Panel.Station
	default:
		return settings{}, errors.New(`no station configured; pass --station, point --dashboard at a layout, or run "metarbar init"`)
	}

	s.Panel = pc.Normalize()
	if s.Layout == nil {
		if err := s.Panel.Validate(); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

func mergedVars(global *config.Config, local *config.LocalConfig) map[string]string {
	vars := make(map[string]string)
	if global != nil {
		for k, v := range global.Vars {
			vars[k] = v
		}
	}
	if local != nil {
		for k, v := range local.Vars {
			vars[k] = v
		}
	}
	return vars
}
