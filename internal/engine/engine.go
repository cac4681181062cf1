package engine

import (
	"context"
	"fmt"
	"sync"

	httpWorker "github.com/NamanBalaji/debridget/internal/http"
	"github.com/NamanBalaji/debridget/internal/logger"
	"github.com/NamanBalaji/debridget/internal/registry"
	"github.com/NamanBalaji/debridget/internal/repository"
	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/task"
	httpPkg "github.com/NamanBalaji/debridget/pkg/http"
)

// Option customises an Engine.
type Option func(*Engine)

// WithRepository replaces the in-memory task store.
func WithRepository(repo repository.Repository) Option {
	return func(e *Engine) {
		if repo != nil {
			e.repository = repo
		}
	}
}

// WithClient replaces the HTTP client shared by every worker.
func WithClient(client *httpPkg.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.client = client
		}
	}
}

// Engine launches downloads and answers status and cancel requests for them.
// Every launch runs in its own goroutine; there is no concurrency limit.
type Engine struct {
	mu sync.RWMutex

	repository repository.Repository
	registry   *registry.Registry
	client     *httpPkg.Client
	config     *Config

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	running bool
}

// runTask runs a function in a goroutine tracked by the WaitGroup.
func (e *Engine) runTask(task func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		task()
	}()
}

// New creates a running Engine.
func New(config *Config, opts ...Option) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	e := &Engine{
		repository: repository.NewMemoryRepository(),
		registry:   registry.New(),
		config:     config,
		ctx:        ctx,
		cancelFunc: cancelFunc,
		running:    true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.client == nil {
		var clientOpts []httpPkg.ClientOption
		if config.UserAgent != "" {
			clientOpts = append(clientOpts, httpPkg.WithUserAgent(config.UserAgent))
		}

		e.client = httpPkg.NewClient(clientOpts...)
	}

	return e
}

// StartDownload launches a transfer of url into targetDir/filename under taskID and returns
// at once. The task record exists when StartDownload returns nil. Transfer failures are
// never returned here; they show up in the record. An empty targetDir means the
// configured download directory.
func (e *Engine) StartDownload(url, filename, taskID, targetDir string) error {
	if err := validateLaunch(url, filename, taskID); err != nil {
		return err
	}

	if targetDir == "" {
		targetDir = e.config.DownloadDir
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.running {
		return ErrEngineNotRunning
	}

	worker := httpWorker.New(taskID, url, filename, targetDir, e.repository, e.registry, e.client, e.workerOptions()...)
	if err := worker.Start(e.ctx); err != nil {
		return launchError(err)
	}

	e.runTask(func() {
		<-worker.Done()
	})

	return nil
}

func (e *Engine) workerOptions() []httpWorker.ConfigOption {
	opts := []httpWorker.ConfigOption{
		httpWorker.WithChunkSize(e.config.ChunkSize),
		httpWorker.WithStagingSuffix(e.config.StagingSuffix),
	}

	if len(e.config.Headers) > 0 {
		opts = append(opts, httpWorker.WithHeaders(e.config.Headers))
	}

	return opts
}

// CancelTask asks the transfer behind id to stop. It reports false when no transfer
// with that id is running, including tasks that already finished.
func (e *Engine) CancelTask(id string) bool {
	ok := e.registry.RequestCancel(id)
	if ok {
		logger.Infof("Cancellation requested for %s", id)
	} else {
		logger.Debugf("Cancellation for %s ignored, no running transfer", id)
	}

	return ok
}

// GetAllTasks returns a point-in-time copy of every task record.
func (e *Engine) GetAllTasks() map[string]task.Task {
	return e.repository.FindAll()
}

// GetTask returns a copy of one task record.
func (e *Engine) GetTask(id string) (task.Task, error) {
	return e.repository.Find(id)
}

// GetGlobalStats aggregates the current task records.
func (e *Engine) GetGlobalStats() Stats {
	stats := Stats{
		ActiveWorkers: len(e.registry.Active()),
	}

	for _, t := range e.repository.FindAll() {
		stats.TotalTasks++
		stats.TotalDownloaded += t.Downloaded

		switch t.Status {
		case status.Downloading:
			stats.ActiveTasks++
		case status.Completed:
			stats.CompletedTasks++
		case status.Cancelled:
			stats.CancelledTasks++
		case status.Error:
			stats.FailedTasks++
		}
	}

	return stats
}

// Wait blocks until every launched transfer has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Shutdown stops accepting launches, cancels running transfers and waits for them to
// settle or for ctx to expire.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	e.mu.Unlock()

	logger.Infof("Starting engine shutdown...")

	n := e.registry.CancelAll()
	e.cancelFunc()

	logger.Debugf("Cancelled %d running transfer(s)", n)

	waitChan := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(waitChan)
	}()

	select {
	case <-waitChan:
		logger.Infof("Engine shutdown complete")
		return nil
	case <-ctx.Done():
		logger.Warnf("Shutdown timed out, some transfers may not have finished")
		return fmt.Errorf("engine shutdown: %w", ctx.Err())
	}
}
