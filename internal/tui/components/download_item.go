package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NamanBalaji/debridget/internal/progress"
	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/task"
	"github.com/NamanBalaji/debridget/internal/tui/styles"
)

const maxNameLen = 30

// DownloadItem renders a single task record given the available width and selection state.
func DownloadItem(t task.Task, width int, selected bool) string {
	name := truncate(t.Filename, maxNameLen)
	progressPercent := float64(t.Progress) / 100

	percent := fmt.Sprintf("%d%%", t.Progress)

	statusLabel := StatusLabel(t.Status)

	percentStyle := lipgloss.NewStyle().Width(6).Align(lipgloss.Right)
	formattedPercent := percentStyle.Render(percent)

	remainingSpace := width - maxNameLen - lipgloss.Width(statusLabel) - lipgloss.Width(formattedPercent) - 3
	if remainingSpace < 2 {
		remainingSpace = 2
	}

	line1 := fmt.Sprintf("%-*s %s%s%s",
		maxNameLen,
		name,
		statusLabel,
		strings.Repeat(" ", remainingSpace),
		formattedPercent)

	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}

	line2 := styles.ListItemStyle.Render(ProgressBar(barWidth, progressPercent, t.Status))

	total := "?"
	if t.Size > 0 {
		total = progress.FormatSize(t.Size)
	}

	sizeInfo := fmt.Sprintf("%s / %s", progress.FormatSize(t.Downloaded), total)

	speedInfo := progress.UnknownETA
	eta := progress.UnknownETA

	switch t.Status {
	case status.Downloading:
		speedInfo = t.Speed
		eta = t.ETA
	case status.Completed:
		eta = "Done"
	}

	info := fmt.Sprintf("%s  %s  ETA: %s", sizeInfo, speedInfo, eta)
	lines := []string{line1, line2, styles.ListItemStyle.Faint(true).Render(info)}

	if t.Status == status.Error && t.Error != "" {
		lines = append(lines, styles.StatusFailed.Render(truncate(t.Error, width-4)))
	}

	item := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if selected {
		return styles.SelectedItemStyle.Width(width).Render(item)
	}

	return styles.ListItemStyle.Width(width).Render(item)
}

// StatusLabel renders the coloured status marker used in lists.
func StatusLabel(s status.Status) string {
	switch s {
	case status.Downloading:
		return styles.StatusActive.Render("● downloading")
	case status.Completed:
		return styles.StatusCompleted.Render("✔ completed")
	case status.Cancelled:
		return styles.StatusCancelled.Render("⊘ cancelled")
	case status.Error:
		return styles.StatusFailed.Render("✖ error")
	default:
		return styles.StatusFailed.Render("unknown")
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit < 4 || len(r) <= limit {
		return s
	}

	return string(r[:limit-3]) + "..."
}
