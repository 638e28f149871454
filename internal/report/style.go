package report

import "github.com/charmbracelet/lipgloss"

// Цветовая палитра отчетов
var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Headers
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Converged / mint
	Red     = lipgloss.Color("#FF5555") // Burn / errors

	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Text:      Base2,
		TextMuted: Base01,
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(DefaultPalette().Primary).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(DefaultPalette().TextMuted)
)

// outcomeStyle colors an equilibrium outcome
func outcomeStyle(outcome string) lipgloss.Style {
	palette := DefaultPalette()
	switch outcome {
	case "converged":
		return lipgloss.NewStyle().Foreground(palette.Success).Bold(true)
	case "stalled", "exhausted":
		return lipgloss.NewStyle().Foreground(palette.Warning)
	default:
		return lipgloss.NewStyle().Foreground(palette.TextMuted)
	}
}
