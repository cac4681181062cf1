package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/task"
	"github.com/NamanBalaji/debridget/internal/tui/components"
	"github.com/NamanBalaji/debridget/internal/tui/styles"
)

type currentView int

const (
	viewList currentView = iota
	viewAdd
	viewConfirmCancel
)

const refreshInterval = 500 * time.Millisecond

// Model is the main TUI application model.
type Model struct {
	actions           engineActions
	view              currentView
	addFormFocusIndex int

	list      listModel
	urlInput  textinput.Model
	nameInput textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap

	width, height int
	errMsg        string
	successMsg    string
	loaded        bool

	// failures already reported, so each failed task is announced once
	reported map[string]bool
}

type listModel struct {
	tasks    []task.Task
	selected int
}

type (
	clearMsg      struct{}
	tickMsg       struct{}
	tasksMsg      []task.Task
	addedMsg      struct{ filename string }
	downloadError struct{ error }
)

func clearNotifications() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return clearMsg{}
	})
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg{} })
}

// NewModel creates a new TUI model.
func NewModel(actions engineActions) *Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "Enter download URL"
	urlInput.Focus()
	urlInput.CharLimit = 2048
	urlInput.Width = 60

	nameInput := textinput.New()
	nameInput.Placeholder = "File name (optional)"
	nameInput.CharLimit = 255
	nameInput.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.Pink)

	return &Model{
		actions:   actions,
		view:      viewList,
		urlInput:  urlInput,
		nameInput: nameInput,
		spinner:   sp,
		help:      help.New(),
		keys:      newKeyMap(),
		reported:  make(map[string]bool),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshTasks(),
		m.spinner.Tick,
		tick(),
	)
}

// Update handles incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		return m, tea.Batch(tick(), m.refreshTasks())

	case tasksMsg:
		return m, m.setTasks(msg)

	case addedMsg:
		m.successMsg = "Added download: " + msg.filename
		return m, tea.Batch(m.refreshTasks(), clearNotifications())

	case downloadError:
		m.errMsg = msg.Error()
		return m, clearNotifications()

	case clearMsg:
		m.errMsg = ""
		m.successMsg = ""

		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (m.view != viewAdd && key.Matches(msg, m.keys.Quit)) {
			return m, tea.Quit
		}
	}

	switch m.view {
	case viewList:
		cmd = m.updateListView(msg)
	case viewAdd:
		cmd = m.updateAddView(msg)
	case viewConfirmCancel:
		cmd = m.updateConfirmCancelView(msg)
	}

	return m, cmd
}

// setTasks replaces the list with a fresh snapshot, sorted by filename then id.
func (m *Model) setTasks(tasks []task.Task) tea.Cmd {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Filename != tasks[j].Filename {
			return tasks[i].Filename < tasks[j].Filename
		}
		return tasks[i].ID < tasks[j].ID
	})

	m.list.tasks = tasks
	m.loaded = true

	if m.list.selected >= len(m.list.tasks) {
		m.list.selected = len(m.list.tasks) - 1
	}

	if m.list.selected < 0 {
		m.list.selected = 0
	}

	for _, t := range tasks {
		if t.Status == status.Error && !m.reported[t.ID] {
			m.reported[t.ID] = true
			m.errMsg = fmt.Sprintf("%s: %s", t.Filename, t.Error)

			return clearNotifications()
		}
	}

	return nil
}

// View renders the TUI.
func (m *Model) View() string {
	if !m.loaded {
		return fmt.Sprintf("\n  %s Loading downloads... Please wait.\n\n", m.spinner.View())
	}

	header := renderHeader(m)
	footer := styles.FooterStyle.Width(m.width).Render(m.help.View(m.keys))
	notification := m.renderNotification()

	remainingHeight := m.height - lipgloss.Height(header) - lipgloss.Height(notification) - lipgloss.Height(footer)
	if remainingHeight < 0 {
		remainingHeight = 0
	}

	var mainContent string

	if remainingHeight > 0 {
		switch m.view {
		case viewList:
			mainContent = components.RenderDownloadList(m.list.tasks, m.list.selected, m.width, remainingHeight)
		case viewAdd:
			mainContent = m.renderAddView(remainingHeight)
		case viewConfirmCancel:
			mainContent = m.renderConfirmDialog("Are you sure you want to cancel this download? (y/n)", remainingHeight)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		notification,
		mainContent,
		footer,
	)
}

func (m *Model) renderAddView(height int) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Pink).Render("Add New Download")
	b.WriteString(title)
	b.WriteString("\n\n" + m.urlInput.View())
	b.WriteString("\n\n" + m.nameInput.View())
	b.WriteString("\n\n(↑/↓ to switch, enter to confirm, esc to cancel)")

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Pink).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m *Model) renderConfirmDialog(prompt string, height int) string {
	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Red).
		Padding(1, 2).
		Render(prompt)

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m *Model) renderNotification() string {
	if m.errMsg != "" {
		return styles.ErrorStyle.Width(m.width).Align(lipgloss.Center).Render(m.errMsg)
	}

	if m.successMsg != "" {
		return styles.SuccessStyle.Width(m.width).Align(lipgloss.Center).Render(m.successMsg)
	}

	return lipgloss.NewStyle().Height(1).Render("")
}

func renderHeader(m *Model) string {
	header := styles.HeaderStyle.Width(m.width).Render("debridget")

	counts := make(map[status.Status]int)
	for _, t := range m.list.tasks {
		counts[t.Status]++
	}

	statsText := fmt.Sprintf(
		"Total: %d | Downloading: %d | Completed: %d | Cancelled: %d | Error: %d",
		len(m.list.tasks),
		counts[status.Downloading],
		counts[status.Completed],
		counts[status.Cancelled],
		counts[status.Error],
	)

	stats := styles.StatsStyle.Width(m.width).Render(statsText)

	return lipgloss.JoinVertical(lipgloss.Top, header, stats)
}

func (m *Model) refreshTasks() tea.Cmd {
	return func() tea.Msg {
		return tasksMsg(m.actions.GetAll())
	}
}

func (m *Model) selectedTask() (task.Task, bool) {
	if len(m.list.tasks) > 0 && m.list.selected < len(m.list.tasks) {
		return m.list.tasks[m.list.selected], true
	}

	return task.Task{}, false
}

func (m *Model) updateListView(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.list.selected > 0 {
			m.list.selected--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.list.selected < len(m.list.tasks)-1 {
			m.list.selected++
		}
	case key.Matches(keyMsg, m.keys.Add):
		m.view = viewAdd
		m.addFormFocusIndex = 0
		m.urlInput.Focus()
		m.nameInput.Blur()

		return textinput.Blink
	case key.Matches(keyMsg, m.keys.Cancel):
		if t, ok := m.selectedTask(); ok && t.Status == status.Downloading {
			m.view = viewConfirmCancel
		}
	}

	return nil
}

func (m *Model) resetAddForm() {
	m.view = viewList
	m.urlInput.SetValue("")
	m.nameInput.SetValue("")
	m.addFormFocusIndex = 0
}

func (m *Model) updateAddView(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyUp, tea.KeyDown, tea.KeyTab, tea.KeyShiftTab:
			m.addFormFocusIndex = (m.addFormFocusIndex + 1) % 2
			if m.addFormFocusIndex == 0 {
				m.urlInput.Focus()
				m.nameInput.Blur()
			} else {
				m.urlInput.Blur()
				m.nameInput.Focus()
			}

			return nil

		case tea.KeyEnter:
			url := strings.TrimSpace(m.urlInput.Value())
			if url == "" {
				return nil
			}

			name := strings.TrimSpace(m.nameInput.Value())
			m.resetAddForm()

			add := m.actions.Add

			return func() tea.Msg {
				filename, err := add(url, name)
				if err != nil {
					return downloadError{err}
				}

				return addedMsg{filename: filename}
			}

		case tea.KeyEsc:
			m.resetAddForm()
			return nil
		}
	}

	var cmd tea.Cmd
	if m.addFormFocusIndex == 0 {
		m.urlInput, cmd = m.urlInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}

	return cmd
}

func (m *Model) updateConfirmCancelView(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.view = viewList

		t, ok := m.selectedTask()
		if !ok {
			return nil
		}

		if !m.actions.Cancel(t.ID) {
			m.errMsg = t.Filename + " is no longer running"
			return tea.Batch(m.refreshTasks(), clearNotifications())
		}

		return m.refreshTasks()
	case "n", "N", "esc":
		m.view = viewList
	}

	return nil
}
