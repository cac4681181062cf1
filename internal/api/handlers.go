package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/NamanBalaji/debridget/internal/engine"
	"github.com/NamanBalaji/debridget/internal/logger"
	"github.com/NamanBalaji/debridget/internal/task"
)

// Engine is the part of the download engine the API drives.
type Engine interface {
	StartDownload(url, filename, taskID, targetDir string) error
	CancelTask(id string) bool
	GetAllTasks() map[string]task.Task
	GetTask(id string) (task.Task, error)
	GetGlobalStats() engine.Stats
}

// DirResolver maps a download category to its target directory.
type DirResolver func(category string) string

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Status: "error", Error: msg})
}

// NewDownloadHandler starts a transfer for an already unlocked link.
// Expects {"link","filename","category"}; answers with the new task id.
func NewDownloadHandler(e Engine, dirFor DirResolver) http.HandlerFunc {
	type request struct {
		Link     string `json:"link"`
		Filename string `json:"filename"`
		Category string `json:"category"`
	}
	type response struct {
		Status string `json:"status"`
		TaskID string `json:"task_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		link := strings.TrimSpace(req.Link)
		if link == "" {
			writeError(w, http.StatusBadRequest, "link is required")
			return
		}

		filename := CleanFilename(req.Filename, link)
		id := uuid.NewString()

		if err := e.StartDownload(link, filename, id, dirFor(req.Category)); err != nil {
			writeError(w, launchStatus(err), err.Error())
			return
		}

		logger.Infof("Accepted download %s (%s) into category %q", id, filename, req.Category)
		writeJSON(w, http.StatusOK, response{Status: "success", TaskID: id})
	}
}

func launchStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrEngineNotRunning):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrTaskExists), errors.Is(err, engine.ErrDestinationBusy):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// NewListTasksHandler returns every task record keyed by id.
func NewListTasksHandler(e Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, e.GetAllTasks())
	}
}

// NewGetTaskHandler returns one task record, or 404.
func NewGetTaskHandler(e Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := e.GetTask(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

// NewCancelTaskHandler asks a running transfer to stop.
func NewCancelTaskHandler(e Engine) http.HandlerFunc {
	type response struct {
		Cancelled bool `json:"cancelled"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, err := e.GetTask(id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, response{Cancelled: e.CancelTask(id)})
	}
}

// NewHealthHandler reports liveness together with the engine's counters.
func NewHealthHandler(e Engine) http.HandlerFunc {
	type response struct {
		Status string       `json:"status"`
		Stats  engine.Stats `json:"stats"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response{Status: "ok", Stats: e.GetGlobalStats()})
	}
}

// WithCORS adds permissive CORS headers and answers preflight requests.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithLogging logs each request at debug level.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// NewRouter wires every API route.
func NewRouter(e Engine, dirFor DirResolver) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/download", NewDownloadHandler(e, dirFor))
	mux.HandleFunc("GET /api/tasks", NewListTasksHandler(e))
	mux.HandleFunc("GET /api/tasks/{id}", NewGetTaskHandler(e))
	mux.HandleFunc("POST /api/tasks/{id}/cancel", NewCancelTaskHandler(e))
	mux.HandleFunc("GET /api/health", NewHealthHandler(e))

	return WithLogging(WithCORS(mux))
}
