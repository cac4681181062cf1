package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanBalaji/debridget/internal/api"
	"github.com/NamanBalaji/debridget/internal/engine"
	"github.com/NamanBalaji/debridget/internal/repository"
	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/task"
)

type launch struct {
	url, filename, id, dir string
}

type fakeEngine struct {
	mu        sync.Mutex
	launches  []launch
	tasks     map[string]task.Task
	startErr  error
	cancelled map[string]bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		tasks:     make(map[string]task.Task),
		cancelled: make(map[string]bool),
	}
}

func (f *fakeEngine) StartDownload(url, filename, taskID, targetDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.startErr != nil {
		return f.startErr
	}

	f.launches = append(f.launches, launch{url, filename, taskID, targetDir})
	f.tasks[taskID] = task.New(taskID, filename)

	return nil
}

func (f *fakeEngine) CancelTask(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.Status.IsTerminal() {
		return false
	}

	f.cancelled[id] = true

	return true
}

func (f *fakeEngine) GetAllTasks() map[string]task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]task.Task, len(f.tasks))
	for k, v := range f.tasks {
		out[k] = v
	}

	return out
}

func (f *fakeEngine) GetTask(id string) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok {
		return task.Task{}, repository.ErrTaskNotFound
	}

	return t, nil
}

func (f *fakeEngine) GetGlobalStats() engine.Stats {
	return engine.Stats{TotalTasks: len(f.GetAllTasks())}
}

func dirFor(category string) string {
	switch category {
	case "movies":
		return "/downloads/movies"
	case "series":
		return "/downloads/series"
	default:
		return "/downloads"
	}
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestDownload(t *testing.T) {
	tests := []struct {
		category string
		wantDir  string
	}{
		{"movies", "/downloads/movies"},
		{"series", "/downloads/series"},
		{"", "/downloads"},
	}

	for _, tt := range tests {
		t.Run("category "+tt.category, func(t *testing.T) {
			fe := newFakeEngine()
			h := api.NewRouter(fe, dirFor)

			rec := do(t, h, http.MethodPost, "/api/download", map[string]string{
				"link":     "https://cdn.example.com/f/abc",
				"filename": "[Group] Film [1080p].mkv",
				"category": tt.category,
			})
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Status string `json:"status"`
				TaskID string `json:"task_id"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "success", resp.Status)

			_, err := uuid.Parse(resp.TaskID)
			assert.NoError(t, err)

			require.Len(t, fe.launches, 1)
			assert.Equal(t, launch{"https://cdn.example.com/f/abc", "Film.mkv", resp.TaskID, tt.wantDir}, fe.launches[0])
		})
	}
}

func TestDownload_BadRequests(t *testing.T) {
	fe := newFakeEngine()
	h := api.NewRouter(fe, dirFor)

	req := httptest.NewRequest(http.MethodPost, "/api/download", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/download", map[string]string{"filename": "a.bin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)

	assert.Empty(t, fe.launches)
}

func TestDownload_EngineErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{engine.ErrInvalidURL, http.StatusBadRequest},
		{engine.ErrTaskExists, http.StatusConflict},
		{engine.ErrDestinationBusy, http.StatusConflict},
		{engine.ErrEngineNotRunning, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			fe := newFakeEngine()
			fe.startErr = tt.err
			h := api.NewRouter(fe, dirFor)

			rec := do(t, h, http.MethodPost, "/api/download", map[string]string{"link": "x", "filename": "a"})
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.err.Error())
		})
	}
}

func TestTasks(t *testing.T) {
	fe := newFakeEngine()
	fe.tasks["a"] = task.New("a", "a.bin")
	done := task.New("b", "b.bin")
	done.Complete()
	fe.tasks["b"] = done

	h := api.NewRouter(fe, dirFor)

	rec := do(t, h, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var all map[string]task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)
	assert.Equal(t, status.Completed, all["b"].Status)
	assert.Equal(t, 100, all["b"].Progress)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "Downloading", raw["a"]["status"])
	assert.Equal(t, "--", raw["a"]["eta"])
	assert.NotContains(t, raw["a"], "error")

	rec = do(t, h, http.MethodGet, "/api/tasks/a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var one task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "a.bin", one.Filename)

	rec = do(t, h, http.MethodGet, "/api/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancel(t *testing.T) {
	fe := newFakeEngine()
	fe.tasks["a"] = task.New("a", "a.bin")
	done := task.New("b", "b.bin")
	done.Complete()
	fe.tasks["b"] = done

	h := api.NewRouter(fe, dirFor)

	rec := do(t, h, http.MethodPost, "/api/tasks/a/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cancelled":true}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/tasks/b/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cancelled":false}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/tasks/missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	fe := newFakeEngine()
	fe.tasks["a"] = task.New("a", "a.bin")
	h := api.NewRouter(fe, dirFor)

	rec := do(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string       `json:"status"`
		Stats  engine.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Stats.TotalTasks)
}

func TestCORS(t *testing.T) {
	h := api.NewRouter(newFakeEngine(), dirFor)

	rec := do(t, h, http.MethodOptions, "/api/download", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	h := api.NewRouter(newFakeEngine(), dirFor)

	rec := do(t, h, http.MethodGet, "/api/download", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
