package panelview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/metarbar/internal/display"
	"github.com/regenrek/metarbar/internal/metar"
	"github.com/regenrek/metarbar/internal/panel"
	"github.com/regenrek/metarbar/internal/runenv"
)

type fakeSource struct {
	payloads map[string][]byte
	errs     map[string]error
}

func (f fakeSource) Fetch(_ context.Context, station string) ([]byte, error) {
	if err := f.errs[station]; err != nil {
		return nil, err
	}
	return f.payloads[station], nil
}

type fakeRegistry struct {
	latest string
	err    error
}

func (f fakeRegistry) LatestVersion(context.Context) (string, error) {
	return f.latest, f.err
}

func xmlPayload(station, raw string) []byte {
	return []byte(`<response><data num_results="1"><METAR><raw_text>` + raw +
		`</raw_text><station_id>` + station + `</station_id><temp_c>17.0</temp_c></METAR></data></response>`)
}

func newTestModel(t *testing.T, source fakeSource, opts Options) *Model {
	t.Helper()
	t.Setenv(runenv.ConfigDirEnv, t.TempDir())
	dev, err := display.NewMemory(16, 2)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	eng, err := panel.New(panel.Config{Station: "KSFO", Cols: 16, Rows: 2}, panel.Options{Source: source, Device: dev})
	if err != nil {
		t.Fatalf("panel.New() error = %v", err)
	}
	m, err := New(eng, dev, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNewRequiresEngineAndDevice(t *testing.T) {
	if _, err := New(nil, nil, Options{}); err == nil {
		t.Fatalf("New(nil engine) should fail")
	}
	dev, err := display.NewMemory(16, 2)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	eng, err := panel.New(panel.Config{Station: "KSFO"}, panel.Options{Source: fakeSource{}, Device: dev})
	if err != nil {
		t.Fatalf("panel.New() error = %v", err)
	}
	if _, err := New(eng, nil, Options{}); err == nil {
		t.Fatalf("New(nil device) should fail")
	}
}

func TestFetchCycleUpdatesView(t *testing.T) {
	source := fakeSource{payloads: map[string][]byte{
		"KSFO": xmlPayload("KSFO", "KSFO 251756Z 28012KT"),
	}}
	m := newTestModel(t, source, Options{Version: "1.2.3"})

	cmd := m.startFetchCmd()
	if cmd == nil {
		t.Fatalf("startFetchCmd() returned nil")
	}
	if !m.fetching {
		t.Fatalf("fetching flag not set")
	}
	msg, ok := cmd().(fetchResultMsg)
	if !ok {
		t.Fatalf("cmd() returned %T, want fetchResultMsg", cmd())
	}
	if len(msg.Results) != 1 || msg.Results[0].Err != nil {
		t.Fatalf("results = %+v", msg.Results)
	}

	model, tick := m.Update(msg)
	m = model.(*Model)
	if m.fetching {
		t.Fatalf("fetching flag still set after result")
	}
	if tick == nil {
		t.Fatalf("expected scheduled tick after result")
	}
	if m.nextDelay <= 0 {
		t.Fatalf("nextDelay = %v", m.nextDelay)
	}

	view := m.View()
	if !strings.Contains(view, "KSFO 251756Z") {
		t.Fatalf("view missing panel rows:\n%s", view)
	}
	if !strings.Contains(view, "METAR BAR v1.2.3") {
		t.Fatalf("view missing title:\n%s", view)
	}
}

func TestFetchGuardPreventsOverlap(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{})
	m.fetching = true
	if cmd := m.startFetchCmd(); cmd != nil {
		t.Fatalf("startFetchCmd() should be a no-op while fetching")
	}
}

func TestStatusLineShowsError(t *testing.T) {
	res := panel.CycleResult{Station: "KSFO", Err: errors.New("boom")}
	line := statusLine(res, time.Now(), "", true)
	if !strings.Contains(line, "KSFO") || !strings.Contains(line, "boom") {
		t.Fatalf("status line = %q", line)
	}
}

func TestStatusLineMarksStale(t *testing.T) {
	res := panel.CycleResult{
		Station: "KSFO",
		Report:  &metar.Report{StationID: "KSFO", RawText: "KSFO 17/12", FlightCategory: "VFR"},
		Stale:   true,
	}
	line := statusLine(res, time.Now(), "", true)
	if !strings.Contains(line, "stale") {
		t.Fatalf("status line = %q, want stale marker", line)
	}
	if !strings.Contains(line, "VFR") {
		t.Fatalf("status line = %q, want category badge", line)
	}
}

func TestStatusLineImperialUnits(t *testing.T) {
	report := &metar.Report{
		StationID:       "KSFO",
		RawText:         "KSFO 17/12",
		TempC:           20,
		ObservationTime: time.Now().Add(-5 * time.Minute),
	}
	line := statusLine(panel.CycleResult{Station: "KSFO", Report: report}, time.Now(), "imperial", false)
	if !strings.Contains(line, "68°F") {
		t.Fatalf("status line = %q, want fahrenheit", line)
	}
	if strings.Contains(line, "old") {
		t.Fatalf("status line = %q, age should be hidden", line)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{})
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = model.(*Model)
	if !m.quitting {
		t.Fatalf("quitting flag not set")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if m.View() != "" {
		t.Fatalf("view should be empty while quitting")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{})
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = model.(*Model)
	if !m.showHelp {
		t.Fatalf("showHelp not toggled on")
	}
	if !strings.Contains(m.View(), "Keys") {
		t.Fatalf("help view missing")
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = model.(*Model)
	if m.showHelp {
		t.Fatalf("showHelp not toggled off")
	}
}

func TestCopyKeysWarnWithoutReports(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{})

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = model.(*Model)
	if m.toast.Text != "" {
		t.Fatalf("plain c must stay inert, toast = %+v", m.toast)
	}

	// Terminal-native chords arrive as composite key names, not bindings.
	for _, chord := range []string{"y", "ctrl+shift+c"} {
		m.toast = toastMessage{}
		model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(chord)})
		m = model.(*Model)
		if m.toast.Text != "No report to copy" || m.toast.Level != toastWarning {
			t.Fatalf("%s: toast = %+v, want no-report warning", chord, m.toast)
		}
	}
}

func TestRefreshKeyStartsFetch(t *testing.T) {
	source := fakeSource{payloads: map[string][]byte{
		"KSFO": xmlPayload("KSFO", "KSFO 251756Z 28012KT"),
	}}
	m := newTestModel(t, source, Options{})
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = model.(*Model)
	if cmd == nil || !m.fetching {
		t.Fatalf("refresh key should start a fetch (cmd=%v fetching=%v)", cmd, m.fetching)
	}
}

func TestUpdateCheckShowsBanner(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{Version: "1.0.0", Registry: fakeRegistry{latest: "2.0.0"}})

	cmd := m.handleUpdateCheck()
	if cmd == nil {
		t.Fatalf("handleUpdateCheck() returned nil")
	}
	msg, ok := cmd().(updateCheckResultMsg)
	if !ok {
		t.Fatalf("cmd() returned wrong message type")
	}
	model, _ := m.Update(msg)
	m = model.(*Model)
	if m.updateCheckInFlight {
		t.Fatalf("updateCheckInFlight still set")
	}
	banner, visible := m.updateBannerInfo()
	if !visible {
		t.Fatalf("banner not visible after newer release")
	}
	if !strings.Contains(banner, "2.0.0") {
		t.Fatalf("banner = %q", banner)
	}
	if !strings.Contains(m.View(), "Update available") {
		t.Fatalf("view missing update banner")
	}
}

func TestUpdateCheckErrorStaysQuiet(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{Version: "1.0.0", Registry: fakeRegistry{err: errors.New("offline")}})
	cmd := m.handleUpdateCheck()
	if cmd == nil {
		t.Fatalf("handleUpdateCheck() returned nil")
	}
	model, _ := m.Update(cmd())
	m = model.(*Model)
	if _, visible := m.updateBannerInfo(); visible {
		t.Fatalf("banner should stay hidden on check failure")
	}
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = model.(*Model)
	if m.width != 80 || m.height != 24 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
}

func TestToastExpires(t *testing.T) {
	m := newTestModel(t, fakeSource{}, Options{})
	m.setToast("copied", toastSuccess)
	if m.toastText() == "" {
		t.Fatalf("toast should render while fresh")
	}
	m.toast.Until = time.Now().Add(-time.Second)
	if m.toastText() != "" {
		t.Fatalf("toast should expire")
	}
}
