// Package panelview renders the live panel as a bubbletea program. It
// drives the same engine the plain renderer uses, mirroring the character
// display into a styled terminal view with per-station status lines.
package panelview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/regenrek/metarbar/internal/display"
	"github.com/regenrek/metarbar/internal/panel"
	"github.com/regenrek/metarbar/internal/tui/theme"
	"github.com/regenrek/metarbar/internal/update"
)

type keyMap struct {
	refresh key.Binding
	yank    key.Binding
	help    key.Binding
	quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		yank:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy raw")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.refresh, k.yank, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.refresh, k.yank}, {k.help, k.quit}}
}

// Options carries the optional collaborators for the panel view.
type Options struct {
	Version  string
	Registry update.RegistryClient
	// Units selects metric or imperial status lines; empty means metric.
	Units string
	// ShowAge toggles observation age in status lines; nil means on.
	ShowAge *bool
}

// Model implements tea.Model for the live panel.
type Model struct {
	engine  *panel.Engine
	device  *display.Memory
	version string
	units   string
	showAge bool

	width  int
	height int

	rows      []string
	results   []panel.CycleResult
	fetching  bool
	lastCycle time.Time
	nextDelay time.Duration

	spin     spinner.Model
	keys     keyMap
	help     help.Model
	showHelp bool

	toast toastMessage

	registry            update.RegistryClient
	updateStore         update.Store
	updatePolicy        update.Policy
	updateState         update.State
	updateCheckInFlight bool

	quitting bool
}

// New builds a panel view around a prepared engine. The device must be the
// memory display the engine renders to.
func New(engine *panel.Engine, device *display.Memory, opts Options) (*Model, error) {
	if engine == nil {
		return nil, errors.New("panel engine is required")
	}
	if device == nil {
		return nil, errors.New("memory display is required")
	}
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(theme.AccentSoft)

	hm := help.New()
	hm.Styles.ShortKey = theme.FooterKey
	hm.Styles.ShortDesc = theme.FooterText
	hm.Styles.ShortSeparator = theme.FooterText
	hm.Styles.FullKey = theme.ShortcutKey
	hm.Styles.FullDesc = theme.ShortcutDesc
	hm.Styles.FullSeparator = theme.FooterText

	m := &Model{
		engine:       engine,
		device:       device,
		version:      opts.Version,
		units:        strings.ToLower(strings.TrimSpace(opts.Units)),
		showAge:      opts.ShowAge == nil || *opts.ShowAge,
		spin:         spin,
		keys:         defaultKeyMap(),
		help:         hm,
		registry:     opts.Registry,
		updatePolicy: update.DefaultPolicy(),
	}
	m.initUpdateState()
	return m, nil
}

func (m *Model) initUpdateState() {
	m.updateState = update.State{CurrentVersion: m.version}
	statePath, err := update.DefaultStatePath()
	if err != nil {
		if !errors.Is(err, update.ErrStateDisabled) {
			slog.Warn("update state path unavailable", "err", err)
		}
		return
	}
	store := update.FileStore{Path: statePath}
	loaded, err := store.Load(context.Background())
	if err != nil {
		slog.Warn("update state load failed", "err", err)
	} else {
		loaded.CurrentVersion = m.updateState.CurrentVersion
		m.updateState = loaded
	}
	m.updateStore = store
}

func (m *Model) updateBannerInfo() (string, bool) {
	if !m.updatePolicy.ShouldShowBanner(m.updateState) {
		return "", false
	}
	latest := update.NormalizeVersion(m.updateState.LatestVersion)
	if latest == "" {
		return "Update available", true
	}
	return "Update available v" + latest + " · metarbar update run", true
}

// ===== Toast messages =====

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastWarning
	toastError
)

type toastMessage struct {
	Text  string
	Level toastLevel
	Until time.Time
}

var singleLineReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

func singleLine(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(singleLineReplacer.Replace(text))
}

func (m *Model) setToast(text string, level toastLevel) {
	m.toast = toastMessage{Text: singleLine(text), Level: level, Until: time.Now().Add(3 * time.Second)}
}

func (m *Model) toastText() string {
	if m.toast.Text == "" || time.Now().After(m.toast.Until) {
		return ""
	}
	switch m.toast.Level {
	case toastSuccess:
		return theme.StatusMessage.Render(m.toast.Text)
	case toastWarning:
		return theme.StatusWarning.Render(m.toast.Text)
	case toastError:
		return theme.StatusError.Render(m.toast.Text)
	default:
		return theme.StatusMessage.Render(m.toast.Text)
	}
}
