package panelview

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/metarbar/internal/awc"
	"github.com/regenrek/metarbar/internal/panel"
	"github.com/regenrek/metarbar/internal/termkeys"
	"github.com/regenrek/metarbar/internal/update"
)

const (
	updateCheckDelay   = 2 * time.Second
	updateCheckTimeout = 15 * time.Second
)

type fetchTickMsg struct{}

type fetchResultMsg struct {
	Rows    []string
	Results []panel.CycleResult
	At      time.Time
}

type updateCheckMsg struct{}

type updateCheckResultMsg struct {
	Latest    string
	CheckedAt time.Time
	Err       error
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.startFetchCmd()}
	if m.registry != nil {
		cmds = append(cmds, tea.Tick(updateCheckDelay, func(time.Time) tea.Msg { return updateCheckMsg{} }))
	}
	return tea.Batch(cmds...)
}

// Update handles all incoming messages and returns the updated model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case fetchTickMsg:
		return m, m.startFetchCmd()
	case fetchResultMsg:
		return m, m.handleFetchResult(msg)
	case updateCheckMsg:
		return m, m.handleUpdateCheck()
	case updateCheckResultMsg:
		m.handleUpdateCheckResult(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.startFetchCmd()
	case key.Matches(msg, m.keys.yank):
		m.yankRawReports()
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.showHelp = !m.showHelp
		return m, nil
	case termkeys.IsCopyShortcutKey(msg.String()):
		// Terminal-native copy chords (cmd+c, ctrl+insert) land here;
		// plain ctrl+c is claimed by quit above.
		m.yankRawReports()
		return m, nil
	default:
		return m, nil
	}
}

// startFetchCmd runs one engine cycle off the UI goroutine. The fetching
// guard keeps cycles from overlapping; the engine is only touched by one
// in-flight command at a time.
func (m *Model) startFetchCmd() tea.Cmd {
	if m.fetching {
		return nil
	}
	m.fetching = true
	engine := m.engine
	device := m.device
	return func() tea.Msg {
		results := engine.RunOnce(context.Background())
		return fetchResultMsg{Rows: device.Rows(), Results: results, At: time.Now()}
	}
}

func (m *Model) handleFetchResult(msg fetchResultMsg) tea.Cmd {
	m.fetching = false
	m.rows = msg.Rows
	m.results = msg.Results
	m.lastCycle = msg.At
	ok := true
	for _, res := range msg.Results {
		if res.Err != nil {
			ok = false
			break
		}
	}
	cfg := m.engine.Config()
	m.nextDelay = awc.Policy{Refresh: cfg.Refresh, Retry: cfg.Retry}.NextAfter(ok)
	return tea.Tick(m.nextDelay, func(time.Time) tea.Msg { return fetchTickMsg{} })
}

func (m *Model) yankRawReports() {
	var raws []string
	for _, res := range m.results {
		if res.Report == nil || strings.TrimSpace(res.Report.RawText) == "" {
			continue
		}
		raws = append(raws, res.Report.RawText)
	}
	if len(raws) == 0 {
		m.setToast("No report to copy", toastWarning)
		return
	}
	if err := clipboard.WriteAll(strings.Join(raws, "\n")); err != nil {
		m.setToast("Copy failed: "+err.Error(), toastError)
		return
	}
	if len(raws) == 1 {
		m.setToast("Raw METAR copied", toastSuccess)
		return
	}
	m.setToast("Raw METARs copied", toastSuccess)
}

func (m *Model) handleUpdateCheck() tea.Cmd {
	if m.registry == nil || m.updateCheckInFlight {
		return nil
	}
	if !m.updatePolicy.ShouldCheck(m.updateState.LastCheckUnixMs, time.Now()) {
		return nil
	}
	m.updateCheckInFlight = true
	registry := m.registry
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), updateCheckTimeout)
		defer cancel()
		latest, err := registry.LatestVersion(ctx)
		return updateCheckResultMsg{Latest: latest, CheckedAt: time.Now(), Err: err}
	}
}

func (m *Model) handleUpdateCheckResult(msg updateCheckResultMsg) {
	m.updateCheckInFlight = false
	if msg.Err != nil {
		slog.Debug("update check failed", "err", msg.Err)
		return
	}
	m.updateState.LatestVersion = msg.Latest
	m.updateState.MarkChecked(msg.CheckedAt)
	if m.updateStore != nil {
		saveUpdateState(m.updateStore, m.updateState)
	}
}

func saveUpdateState(store update.Store, state update.State) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.Save(ctx, state); err != nil {
		slog.Warn("update state save failed", "err", err)
	}
}
