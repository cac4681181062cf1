package repository

import (
	"errors"

	"github.com/NamanBalaji/debridget/internal/task"
)

var (
	// ErrTaskNotFound is returned when a task cannot be found.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskExists is returned when a record for the id already exists.
	ErrTaskExists = errors.New("task already exists")
	// ErrTaskTerminal is returned when updating a record that already finished.
	ErrTaskTerminal = errors.New("task already finished")
	// ErrEmptyID is returned for records without an id.
	ErrEmptyID = errors.New("task ID cannot be empty")
)

// Repository stores the current state of every known task.
type Repository interface {
	Create(t task.Task) error
	Update(id string, fn func(*task.Task)) error
	Find(id string) (task.Task, error)
	FindAll() map[string]task.Task
}
