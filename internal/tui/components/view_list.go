package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/NamanBalaji/debridget/internal/task"
	"github.com/NamanBalaji/debridget/internal/tui/styles"
)

// RenderDownloadList renders the visible window of tasks around the selected one.
func RenderDownloadList(tasks []task.Task, selected int, width, height int) string {
	if len(tasks) == 0 {
		return renderEmptyView(width, height)
	}
	if height <= 0 {
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}

	var rows []string
	itemHeight := 4

	visibleCount := height / itemHeight
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := selected - (visibleCount / 2)
	if start < 0 {
		start = 0
	}
	end := start + visibleCount
	if end > len(tasks) {
		end = len(tasks)
		start = end - visibleCount
		if start < 0 {
			start = 0
		}
	}

	for i := start; i < end; i++ {
		rows = append(rows, DownloadItem(tasks[i], width, i == selected))
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return lipgloss.NewStyle().Width(width).Height(height).Render(listContent)
}

// renderEmptyView displays the banner and instructions when there are no tasks.
func renderEmptyView(width, height int) string {
	logo := []string{
		"█▀▄ █▀▀ █▄▄ █▀█ █ █▀▄ █▀▀ █▀▀ ▀█▀",
		"█▄▀ ██▄ █▄█ █▀▄ █ █▄▀ █▄█ ██▄  █ ",
	}
	colors := []lipgloss.Color{styles.Blue, styles.Mauve}

	var lines []string

	for i, line := range logo {
		lines = append(lines, lipgloss.NewStyle().Foreground(colors[i]).Render(line))
	}

	subtitle := lipgloss.NewStyle().Foreground(styles.Text).Italic(true).Render("Debrid Download Manager")
	instruction := lipgloss.NewStyle().Foreground(styles.Subtext0).Render("Press 'a' to add a download or 'q' to quit")
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	content = lipgloss.JoinVertical(lipgloss.Center, content, "", subtitle, "", instruction)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
