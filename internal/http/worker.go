package http

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/NamanBalaji/debridget/internal/errors"
	"github.com/NamanBalaji/debridget/internal/logger"
	"github.com/NamanBalaji/debridget/internal/progress"
	"github.com/NamanBalaji/debridget/internal/registry"
	"github.com/NamanBalaji/debridget/internal/repository"
	"github.com/NamanBalaji/debridget/internal/task"
	httpPkg "github.com/NamanBalaji/debridget/pkg/http"
)

var (
	ErrAlreadyStarted = errors.New("download already started")
	ErrEmptyFilename  = errors.New("filename cannot be empty")
)

// Worker streams one remote resource into a file, keeping its task record current.
type Worker struct {
	id       string
	url      string
	filename string
	dir      string

	repo     repository.Repository
	registry *registry.Registry
	client   *httpPkg.Client
	config   *Config

	claim   string
	started atomic.Bool
	done    chan error
}

// New creates a worker for a single transfer. Nothing happens until Start.
func New(id, url, filename, dir string, repo repository.Repository, reg *registry.Registry, client *httpPkg.Client, opts ...ConfigOption) *Worker {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if client == nil {
		client = httpPkg.NewClient()
	}

	return &Worker{
		id:       id,
		url:      url,
		filename: filename,
		dir:      dir,
		repo:     repo,
		registry: reg,
		client:   client,
		config:   cfg,
		done:     make(chan error, 1),
	}
}

// GetID returns the task id.
func (w *Worker) GetID() string {
	return w.id
}

// GetFilename returns the final file name.
func (w *Worker) GetFilename() string {
	return w.filename
}

// DestinationPath is where the file ends up after a successful transfer.
func (w *Worker) DestinationPath() string {
	return filepath.Join(w.dir, w.filename)
}

// StagingPath is where bytes are written while the transfer is running.
func (w *Worker) StagingPath() string {
	return w.DestinationPath() + w.config.StagingSuffix
}

// Start registers the cancellation handle, claims the destination, creates the task
// record and streams in the background. The record exists before Start returns. A
// destination another live task is writing is refused with registry.ErrDestinationBusy.
func (w *Worker) Start(ctx context.Context) error {
	if w.filename == "" {
		return ErrEmptyFilename
	}

	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)

	if err := w.registry.Register(w.id, cancel); err != nil {
		cancel()
		return fmt.Errorf("failed to register task %s: %w", w.id, err)
	}

	w.claim = claimKey(w.DestinationPath())
	if err := w.registry.Claim(w.claim, w.id); err != nil {
		w.registry.Deregister(w.id)
		cancel()

		return fmt.Errorf("failed to start task %s: %w", w.id, err)
	}

	if err := w.repo.Create(task.New(w.id, w.filename)); err != nil {
		w.registry.Release(w.claim)
		w.registry.Deregister(w.id)
		cancel()

		return fmt.Errorf("failed to create task %s: %w", w.id, err)
	}

	logger.Infof("Starting download %s: %s -> %s", w.id, w.url, w.DestinationPath())

	go func() {
		defer cancel()
		w.done <- w.run(runCtx)
		close(w.done)
	}()

	return nil
}

// Done yields the terminal error (nil on success) once the worker has exited.
func (w *Worker) Done() <-chan error {
	return w.done
}

func (w *Worker) run(ctx context.Context) error {
	err := w.transfer(ctx)

	// Deregister before publishing the terminal state so a cancel request either
	// reaches a live worker or reports false.
	w.registry.Deregister(w.id)

	if err == nil && ctx.Err() != nil {
		err = errors.NewCancelledError(ctx.Err(), w.url)
	}

	if err == nil {
		err = w.finalize()
	}

	w.finish(err)
	w.registry.Release(w.claim)

	return err
}

// claimKey normalises a destination so different spellings of one file share a claim.
func claimKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return filepath.Clean(path)
}

func (w *Worker) transfer(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.NewTransferIOError(fmt.Errorf("create directory %s: %w", w.dir, err), w.dir)
	}

	if ctx.Err() != nil {
		return errors.NewCancelledError(ctx.Err(), w.url)
	}

	resp, err := w.client.Stream(ctx, w.url, w.config.Headers)
	if err != nil {
		return w.classify(ctx, err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("Failed to close response body for %s: %v", w.url, err)
		}
	}()

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	w.update(func(t *task.Task) { t.Size = size })

	file, err := os.OpenFile(w.StagingPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.NewTransferIOError(err, w.StagingPath())
	}

	err = w.stream(ctx, resp.Body, file, size)

	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = errors.NewTransferIOError(closeErr, w.StagingPath())
	}

	return err
}

// stream copies body into file one chunk at a time, publishing progress after every
// write. Cancellation is observed between chunks.
func (w *Worker) stream(ctx context.Context, body io.Reader, file *os.File, size int64) error {
	buffer := make([]byte, w.config.ChunkSize)
	start := w.config.now()

	var downloaded int64

	for {
		if ctx.Err() != nil {
			return errors.NewCancelledError(ctx.Err(), w.url)
		}

		n, readErr := body.Read(buffer)
		if n > 0 {
			if _, err := file.Write(buffer[:n]); err != nil {
				return errors.NewTransferIOError(err, w.StagingPath())
			}

			downloaded += int64(n)
			snap := progress.Compute(downloaded, size, w.config.now().Sub(start))

			w.update(func(t *task.Task) {
				t.Downloaded = downloaded
				t.Apply(snap)
			})
		}

		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			return w.classify(ctx, readErr)
		}
	}

	if err := file.Sync(); err != nil {
		return errors.NewTransferIOError(err, w.StagingPath())
	}

	logger.Debugf("Download %s streamed %d bytes", w.id, downloaded)

	return nil
}

// finalize moves the staging file over the destination. rename replaces an existing
// destination in one step, so the last successful writer wins.
func (w *Worker) finalize() error {
	if err := os.Rename(w.StagingPath(), w.DestinationPath()); err != nil {
		return errors.NewTransferIOError(err, w.DestinationPath())
	}

	return nil
}

func (w *Worker) finish(err error) {
	switch {
	case err == nil:
		w.update(func(t *task.Task) { t.Complete() })
		logger.Infof("Download %s completed: %s", w.id, w.DestinationPath())

		return
	case errors.IsCancelled(err):
		w.update(func(t *task.Task) { t.Cancel() })
		logger.Infof("Download %s cancelled", w.id)
	default:
		w.update(func(t *task.Task) { t.Fail(err.Error()) })
		logger.Errorf("Download %s failed: %v", w.id, err)
	}

	w.removeStaging()
}

func (w *Worker) removeStaging() {
	if err := os.Remove(w.StagingPath()); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to remove staging file %s: %v", w.StagingPath(), err)
	}
}

func (w *Worker) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return errors.NewCancelledError(err, w.url)
	}

	var statusErr *httpPkg.StatusError
	if errors.As(err, &statusErr) {
		return errors.NewHTTPStatusError(statusErr, w.url, statusErr.Code)
	}

	return errors.NewTransferIOError(err, w.url)
}

func (w *Worker) update(fn func(*task.Task)) {
	if err := w.repo.Update(w.id, fn); err != nil {
		logger.Warnf("Failed to update task %s: %v", w.id, err)
	}
}
