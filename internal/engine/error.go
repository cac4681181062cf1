package engine

import (
	"path/filepath"
	"strings"

	"github.com/NamanBalaji/debridget/internal/errors"
	"github.com/NamanBalaji/debridget/internal/registry"
	"github.com/NamanBalaji/debridget/internal/repository"
	httpPkg "github.com/NamanBalaji/debridget/pkg/http"
)

var (
	// ErrInvalidURL is returned for links that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidFilename is returned for empty names or names that would escape the target directory.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrEmptyTaskID is returned when no task id is supplied.
	ErrEmptyTaskID = errors.New("task id cannot be empty")

	// ErrTaskExists is returned when the task id has been used before.
	ErrTaskExists = repository.ErrTaskExists

	// ErrTaskNotFound is returned by lookups for ids the engine has never seen.
	ErrTaskNotFound = repository.ErrTaskNotFound

	// ErrDestinationBusy is returned when a live task is already writing the same file.
	ErrDestinationBusy = registry.ErrDestinationBusy

	// ErrEngineNotRunning is returned once Shutdown has been called.
	ErrEngineNotRunning = errors.New("engine is not running")
)

func validateLaunch(url, filename, taskID string) error {
	if taskID == "" {
		return ErrEmptyTaskID
	}

	if !httpPkg.IsHTTPURL(url) {
		return ErrInvalidURL
	}

	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsRune(filename, '/') || strings.ContainsRune(filename, filepath.Separator) {
		return ErrInvalidFilename
	}

	return nil
}

// launchError folds the worker's start failures into the engine's error set.
func launchError(err error) error {
	if errors.Is(err, registry.ErrAlreadyRegistered) || errors.Is(err, repository.ErrTaskExists) {
		return ErrTaskExists
	}

	return err
}
