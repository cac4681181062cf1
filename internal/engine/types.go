package engine

import (
	"os"
	"path/filepath"

	httpWorker "github.com/NamanBalaji/debridget/internal/http"
	httpPkg "github.com/NamanBalaji/debridget/pkg/http"
)

// Config contains engine configuration.
type Config struct {
	DownloadDir   string
	ChunkSize     int
	StagingSuffix string
	UserAgent     string
	Headers       map[string]string
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		DownloadDir:   filepath.Join(homeDir, "Downloads"),
		ChunkSize:     httpWorker.DefaultChunkSize,
		StagingSuffix: httpWorker.DefaultStagingSuffix,
		UserAgent:     httpPkg.DefaultUserAgent,
	}
}

// Stats aggregates the task records the engine knows about.
type Stats struct {
	TotalTasks      int   `json:"totalTasks"`
	ActiveTasks     int   `json:"activeTasks"`
	CompletedTasks  int   `json:"completedTasks"`
	CancelledTasks  int   `json:"cancelledTasks"`
	FailedTasks     int   `json:"failedTasks"`
	ActiveWorkers   int   `json:"activeWorkers"`
	TotalDownloaded int64 `json:"totalDownloaded"`
}
