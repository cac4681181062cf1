package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrAlreadyRegistered is returned when a live handle already exists for the id.
	ErrAlreadyRegistered = errors.New("cancellation handle already registered")

	// ErrDestinationBusy is returned when another live task is writing the same file.
	ErrDestinationBusy = errors.New("destination is in use by another task")
)

// Registry maps task ids to the cancel function of their running worker, and
// destination paths to the task writing them.
type Registry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	claims  map[string]string
}

func New() *Registry {
	return &Registry{
		cancels: make(map[string]context.CancelFunc),
		claims:  make(map[string]string),
	}
}

// Register records the cancel function of a worker that is about to start.
func (r *Registry) Register(id string, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cancels[id]; ok {
		return ErrAlreadyRegistered
	}

	r.cancels[id] = cancel

	return nil
}

// RequestCancel signals the worker for id and reports whether one was running.
// The worker stops at its next check point; the handle stays registered until it does.
// cancel runs under the lock so a concurrent Deregister always observes it.
func (r *Registry) RequestCancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancel, ok := r.cancels[id]
	if !ok {
		return false
	}

	cancel()

	return true
}

// Deregister removes the handle for id. Safe to call more than once.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cancels, id)
}

// Active returns the ids that currently have a live worker.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.cancels))
	for id := range r.cancels {
		ids = append(ids, id)
	}

	return ids
}

// CancelAll signals every live worker and returns how many were signalled.
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(r.cancels))
	for _, cancel := range r.cancels {
		cancels = append(cancels, cancel)
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}

	return len(cancels)
}

// Claim reserves path for id until Release. Claiming a path already held by another
// task fails with ErrDestinationBusy.
func (r *Registry) Claim(path, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.claims[path]; ok && owner != id {
		return fmt.Errorf("%w: %s is being written by task %s", ErrDestinationBusy, path, owner)
	}

	r.claims[path] = id

	return nil
}

// Release frees path. Safe to call more than once.
func (r *Registry) Release(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.claims, path)
}
