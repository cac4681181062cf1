package repository

import (
	"sync"

	"github.com/NamanBalaji/debridget/internal/task"
)

// MemoryRepository keeps task records in memory for the lifetime of the process.
// Records are never evicted.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*task.Task
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[string]*task.Task),
	}
}

// Create stores a new record. Ids are unique for the lifetime of the repository.
func (r *MemoryRepository) Create(t task.Task) error {
	if t.ID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; ok {
		return ErrTaskExists
	}

	r.tasks[t.ID] = &t

	return nil
}

// Update applies fn to the stored record under the write lock.
// Records that reached a terminal status are frozen.
func (r *MemoryRepository) Update(id string, fn func(*task.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}

	if t.Status.IsTerminal() {
		return ErrTaskTerminal
	}

	updated := *t
	fn(&updated)
	updated.ID = id
	*t = updated

	return nil
}

// Find returns a copy of the record for id.
func (r *MemoryRepository) Find(id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return task.Task{}, ErrTaskNotFound
	}

	return *t, nil
}

// FindAll returns a copy of every record keyed by id.
func (r *MemoryRepository) FindAll() map[string]task.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[string]task.Task, len(r.tasks))
	for id, t := range r.tasks {
		all[id] = *t
	}

	return all
}

// Len returns the number of stored records.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tasks)
}
