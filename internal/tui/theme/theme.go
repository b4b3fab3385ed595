// Package theme provides centralized styling for metarbar TUI components.
// Following best practices: all styles are defined in one place for consistency.
package theme

import "github.com/charmbracelet/lipgloss"

// Design tokens for consistent TUI colors.
var (
	// Accent colors
	Accent     = lipgloss.Color("#3B82F6") // highlight blue
	AccentSoft = lipgloss.Color("#60A5FA")
	AccentAlt  = lipgloss.Color("#22C55E")

	// Status colors
	Success = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#22C55E"}
	Warning = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	Error   = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	Info    = lipgloss.AdaptiveColor{Light: "#38BDF8", Dark: "#60A5FA"}

	// Flight category colors, matching the usual sectional-chart palette.
	CategoryVFR  = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#22C55E"}
	CategoryMVFR = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	CategoryIFR  = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	CategoryLIFR = lipgloss.AdaptiveColor{Light: "#C026D3", Dark: "#E879F9"}

	// Text colors
	TextPrimary   = lipgloss.Color("#F8FAFC")
	TextSecondary = lipgloss.Color("#CBD5E1")
	TextMuted     = lipgloss.Color("#94A3B8")
	TextDim       = lipgloss.Color("#64748B")

	// Surface colors
	Surface      = lipgloss.Color("#1A1A1A")
	SurfaceAlt   = lipgloss.Color("#242424")
	SurfaceInset = lipgloss.Color("#3A3A3A")

	// UI element colors
	Border        = lipgloss.Color("#3A3A3A")
	BorderFocused = Accent
	Background    = Surface
	Highlight     = SurfaceAlt

	// Logo color
	Logo = lipgloss.Color("#FDE68A")
)

// ===== Base Styles =====

// App wraps the entire application view
var App = lipgloss.NewStyle().Padding(1, 2)

// ===== Title Styles =====

// Title is the main title style (e.g., "metarbar")
var Title = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Background(Accent).
	Padding(0, 1)

// HelpTitle for help/shortcut views
var HelpTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary).
	Background(Accent).
	Padding(0, 1).
	MarginBottom(1)

// ===== Status Message Styles =====

// StatusMessage for success/info messages
var StatusMessage = lipgloss.NewStyle().
	Foreground(Success)

// StatusError for error messages
var StatusError = lipgloss.NewStyle().
	Foreground(Error)

// StatusWarning for warning messages
var StatusWarning = lipgloss.NewStyle().
	Foreground(Warning)

// ===== Panel Styles =====

// PanelBox frames the character-display emulation.
var PanelBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// PanelBoxStale marks a panel whose report is older than the refresh horizon.
var PanelBoxStale = PanelBox.BorderForeground(Warning)

// PanelText for the rendered display rows.
var PanelText = lipgloss.NewStyle().
	Foreground(TextPrimary)

// PanelTextStale dims rows that show a carried-over report.
var PanelTextStale = lipgloss.NewStyle().
	Foreground(TextMuted)

// SlotTitle labels a station slot inside the panel.
var SlotTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(AccentSoft)

// RawReport for raw METAR text shown outside the panel grid.
var RawReport = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ===== Flight Category Badges =====

// BadgeVFR for visual flight rules conditions.
var BadgeVFR = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary).
	Background(CategoryVFR).
	Padding(0, 1)

// BadgeMVFR for marginal VFR conditions.
var BadgeMVFR = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary).
	Background(CategoryMVFR).
	Padding(0, 1)

// BadgeIFR for instrument flight rules conditions.
var BadgeIFR = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary).
	Background(CategoryIFR).
	Padding(0, 1)

// BadgeLIFR for low IFR conditions.
var BadgeLIFR = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary).
	Background(CategoryLIFR).
	Padding(0, 1)

// BadgeUnknown for reports without a flight category.
var BadgeUnknown = lipgloss.NewStyle().
	Foreground(TextMuted).
	Background(Highlight).
	Padding(0, 1)

// CategoryBadge picks the badge style for a flight category string.
func CategoryBadge(category string) lipgloss.Style {
	switch category {
	case "VFR":
		return BadgeVFR
	case "MVFR":
		return BadgeMVFR
	case "IFR":
		return BadgeIFR
	case "LIFR":
		return BadgeLIFR
	default:
		return BadgeUnknown
	}
}

// ===== Footer Styles =====

// FooterText for the status line under the panel.
var FooterText = lipgloss.NewStyle().
	Foreground(TextMuted)

// FooterKey for keyboard hints in the footer.
var FooterKey = lipgloss.NewStyle().
	Foreground(AccentSoft).
	Bold(true)

// UpdateBanner announces a newer release.
var UpdateBanner = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Background(AccentAlt).
	Padding(0, 1)

// ===== Shortcut/Help Styles =====

// ShortcutKey for keyboard shortcut keys
var ShortcutKey = lipgloss.NewStyle().
	Foreground(AccentSoft).
	Bold(true).
	Width(14)

// ShortcutDesc for shortcut descriptions
var ShortcutDesc = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ===== Logo Style =====

// LogoStyle for ASCII art logo
var LogoStyle = lipgloss.NewStyle().
	Foreground(Logo).
	Bold(true)

// ===== Error Display Styles =====

// ErrorBox wraps error messages in a visible container
var ErrorBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Error).
	Padding(0, 1).
	MarginTop(1)

// ErrorTitle for error headings
var ErrorTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Error)

// ErrorMessage for error body text
var ErrorMessage = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ===== Helper Functions =====

// FormatSuccess creates a success message
func FormatSuccess(msg string) string {
	return StatusMessage.Render("✓ " + msg)
}

// FormatError creates an error message
func FormatError(msg string) string {
	return StatusError.Render("✗ " + msg)
}

// FormatWarning creates a warning message
func FormatWarning(msg string) string {
	return StatusWarning.Render("⚠ " + msg)
}

// FormatInfo creates an info message
func FormatInfo(msg string) string {
	return StatusMessage.Render("ℹ " + msg)
}
