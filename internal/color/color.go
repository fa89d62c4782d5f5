package color

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ErrorColor     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	WarningColor   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	SuccessColor   = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	InfoColor      = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
	SecondaryColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(SecondaryColor)
	HeaderStyle  = lipgloss.NewStyle().Foreground(InfoColor).Bold(true)
)

var enabled = true

// Initialize sets the background mode used to resolve adaptive colors.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// SetEnabled switches styled output on or off for every Render helper.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether styled output is on.
func Enabled() bool {
	return enabled
}

func render(style lipgloss.Style, s string) string {
	if !enabled {
		return s
	}
	return style.Render(s)
}

// Error renders s in the error style.
func Error(s string) string { return render(ErrorStyle, s) }

// Warning renders s in the warning style.
func Warning(s string) string { return render(WarningStyle, s) }

// Success renders s in the success style.
func Success(s string) string { return render(SuccessStyle, s) }

// Info renders s in the info style.
func Info(s string) string { return render(InfoStyle, s) }

// Muted renders s de-emphasized.
func Muted(s string) string { return render(MutedStyle, s) }

// Header renders s as a section heading.
func Header(s string) string { return render(HeaderStyle, s) }
