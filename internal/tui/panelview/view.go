package panelview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/regenrek/metarbar/internal/panel"
	"github.com/regenrek/metarbar/internal/tui/logo"
	"github.com/regenrek/metarbar/internal/tui/theme"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	sections := []string{m.headerView(), m.panelBoxView()}
	sections = append(sections, m.statusLinesView()...)
	if toast := m.toastText(); toast != "" {
		sections = append(sections, toast)
	}
	if m.showHelp {
		sections = append(sections, m.helpView())
	} else {
		sections = append(sections, m.footerView())
	}
	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) headerView() string {
	label := logo.SmallRender(0)
	if m.version != "" {
		label += " v" + m.version
	}
	parts := []string{theme.Title.Render(label)}
	if banner, ok := m.updateBannerInfo(); ok {
		parts = append(parts, " ", theme.UpdateBanner.Render(banner))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) panelBoxView() string {
	if len(m.rows) == 0 {
		waiting := theme.PanelTextStale.Render("waiting for first report " + m.spin.View())
		return theme.PanelBox.Render(waiting)
	}
	stale := make(map[string]bool, len(m.results))
	for _, res := range m.results {
		if res.Stale {
			stale[res.Station] = true
		}
	}
	layout := m.engine.Layout()
	styled := make([]string, 0, len(m.rows))
	for _, slot := range layout.Slots {
		style := theme.PanelText
		if stale[slot.Station] {
			style = theme.PanelTextStale
		}
		for i := 0; i < slot.Lines; i++ {
			y := slot.Start + i
			if y >= len(m.rows) {
				break
			}
			styled = append(styled, style.Render(m.rows[y]))
		}
	}
	box := theme.PanelBox
	if len(stale) > 0 {
		box = theme.PanelBoxStale
	}
	return box.Render(strings.Join(styled, "\n"))
}

func (m *Model) statusLinesView() []string {
	if len(m.results) == 0 {
		return nil
	}
	now := time.Now()
	lines := make([]string, 0, len(m.results))
	for _, res := range m.results {
		lines = append(lines, statusLine(res, now, m.units, m.showAge))
	}
	return lines
}

func statusLine(res panel.CycleResult, now time.Time, units string, showAge bool) string {
	category := ""
	if res.Report != nil {
		category = res.Report.FlightCategory
	}
	label := category
	if label == "" {
		label = "--"
	}
	badge := theme.CategoryBadge(category).Render(label)
	station := theme.SlotTitle.Render(res.Station)

	var detail string
	switch {
	case res.Report == nil && res.Err != nil:
		detail = theme.StatusError.Render(singleLine(res.Err.Error()))
	case res.Report == nil:
		detail = theme.FooterText.Render("no data")
	case res.Report.ObservationTime.IsZero():
		detail = theme.FooterText.Render("raw report")
	default:
		parts := []string{formatTemp(res.Report.TempC, units)}
		if res.Report.WindSpeedKt > 0 {
			parts = append(parts, fmt.Sprintf("%03d°/%dkt", res.Report.WindDirDegrees, res.Report.WindSpeedKt))
		}
		if showAge {
			parts = append(parts, humanAge(res.Report.Age(now))+" old")
		}
		detail = theme.FooterText.Render(strings.Join(parts, "  "))
	}

	line := badge + " " + station + "  " + detail
	if res.Stale {
		line += " " + theme.StatusWarning.Render("stale")
	}
	return line
}

func formatTemp(tempC float64, units string) string {
	if units == "imperial" {
		return fmt.Sprintf("%.0f°F", tempC*9/5+32)
	}
	return fmt.Sprintf("%.0f°C", tempC)
}

func (m *Model) footerView() string {
	m.help.ShowAll = false
	hints := m.help.View(m.keys)

	status := ""
	if m.fetching {
		status = m.spin.View() + theme.FooterText.Render(" fetching")
	} else if !m.lastCycle.IsZero() && m.nextDelay > 0 {
		remaining := time.Until(m.lastCycle.Add(m.nextDelay))
		if remaining < 0 {
			remaining = 0
		}
		status = theme.FooterText.Render("next in " + formatDelay(remaining))
	}
	if status == "" {
		return hints
	}
	return hints + theme.FooterText.Render("   ") + status
}

func (m *Model) helpView() string {
	m.help.ShowAll = true
	return theme.HelpTitle.Render("Keys") + "\n" + m.help.View(m.keys)
}

func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func formatDelay(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
