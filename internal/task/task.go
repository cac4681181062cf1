package task

import (
	"github.com/NamanBalaji/debridget/internal/progress"
	"github.com/NamanBalaji/debridget/internal/status"
)

// Task is the observable state of one transfer, as returned to status pollers.
type Task struct {
	ID         string        `json:"id"`
	Filename   string        `json:"filename"`
	Status     status.Status `json:"status"`
	Size       int64         `json:"size"`
	Downloaded int64         `json:"downloaded"`
	Progress   int           `json:"progress"`
	Speed      string        `json:"speed"`
	ETA        string        `json:"eta"`
	Error      string        `json:"error,omitempty"`
}

// New returns the record a transfer starts with.
func New(id, filename string) Task {
	return Task{
		ID:       id,
		Filename: filename,
		Status:   status.Downloading,
		Speed:    progress.IdleSpeed,
		ETA:      progress.UnknownETA,
	}
}

// Apply copies a progress snapshot into the record.
func (t *Task) Apply(snap progress.Snapshot) {
	t.Progress = snap.Progress
	t.Speed = snap.Speed
	t.ETA = snap.ETA
}

// Complete moves the record into the Completed state.
func (t *Task) Complete() {
	t.Status = status.Completed
	t.Progress = 100
	t.ETA = progress.UnknownETA
}

// Cancel moves the record into the Cancelled state.
func (t *Task) Cancel() {
	t.Status = status.Cancelled
	t.Speed = progress.IdleSpeed
	t.ETA = progress.UnknownETA
}

// Fail moves the record into the Error state with the given description.
func (t *Task) Fail(msg string) {
	t.Status = status.Error
	t.Error = msg
	t.Speed = progress.IdleSpeed
	t.ETA = progress.UnknownETA
}
