package tui

import (
	"context"

	"github.com/google/uuid"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NamanBalaji/debridget/internal/engine"
	"github.com/NamanBalaji/debridget/internal/task"
	httpPkg "github.com/NamanBalaji/debridget/pkg/http"
)

// Run initializes and starts the TUI. New downloads added from the TUI land in dir.
// The program exits when the user quits or ctx is cancelled.
func Run(ctx context.Context, eng *engine.Engine, dir string) error {
	m := NewModel(newEngineActions(eng, dir))
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}

	return err
}

type engineActions struct {
	// Add launches url and returns the file name it is saved under.
	Add    func(url, filename string) (string, error)
	Cancel func(id string) bool
	GetAll func() []task.Task
}

func newEngineActions(e *engine.Engine, dir string) engineActions {
	return engineActions{
		Add: func(url, filename string) (string, error) {
			if filename == "" {
				filename = httpPkg.FilenameFromURL(url)
			}

			return filename, e.StartDownload(url, filename, uuid.NewString(), dir)
		},
		Cancel: e.CancelTask,
		GetAll: func() []task.Task {
			all := e.GetAllTasks()
			tasks := make([]task.Task, 0, len(all))

			for _, t := range all {
				tasks = append(tasks, t)
			}

			return tasks
		},
	}
}
