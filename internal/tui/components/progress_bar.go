package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/tui/styles"
)

// ProgressBar returns a styled progress bar.
func ProgressBar(width int, percent float64, s status.Status) string {
	if width <= 0 {
		return ""
	}

	if percent < 0 {
		percent = 0
	}

	if percent > 1.0 {
		percent = 1.0
	}

	filledWidth := int(float64(width) * percent)
	emptyWidth := width - filledWidth

	filledStr := strings.Repeat("█", filledWidth)
	emptyStr := strings.Repeat("░", emptyWidth)

	var filledStyle lipgloss.Style

	switch s {
	case status.Downloading:
		filledStyle = lipgloss.NewStyle().Foreground(styles.Teal)
	case status.Completed:
		filledStyle = lipgloss.NewStyle().Foreground(styles.Green)
	case status.Cancelled:
		filledStyle = lipgloss.NewStyle().Foreground(styles.Mauve)
	case status.Error:
		filledStyle = lipgloss.NewStyle().Foreground(styles.Red)
	default:
		filledStyle = lipgloss.NewStyle().Foreground(styles.Yellow)
	}

	return filledStyle.Render(filledStr) + styles.ProgressBarEmptyStyle.Render(emptyStr)
}
