package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

var (
	mu sync.RWMutex

	out *log.Logger

	debugEnabled atomic.Bool

	logFile *os.File
)

// InitLogging sets up logging. With debugMode and a logPath, every level is written to
// the file; without it, only warnings and errors go to stderr.
func InitLogging(debugMode bool, logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	debugEnabled.Store(debugMode)

	if !debugMode || logPath == "" {
		out = log.New(os.Stderr, "debridget ", log.LstdFlags)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	out = log.New(f, "", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// SetDebug toggles Debugf and Infof output.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetOutput sends all log output to w. A nil writer silences logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		out = nil
		return
	}

	out = log.New(w, "", log.LstdFlags)
}

// Close closes the log file if open.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
		out = nil
	}
}

func Infof(format string, v ...interface{}) {
	printf(debugEnabled.Load(), "[INFO] "+format, v...)
}

// Errorf logs an error message.
func Errorf(format string, v ...interface{}) {
	printf(true, "[ERROR] "+format, v...)
}

func Debugf(format string, v ...interface{}) {
	printf(debugEnabled.Load(), "[DEBUG] "+format, v...)
}

func Warnf(format string, v ...interface{}) {
	printf(true, "[WARNING] "+format, v...)
}

func printf(enabled bool, format string, v ...interface{}) {
	if !enabled {
		return
	}

	mu.RLock()
	l := out
	mu.RUnlock()

	if l != nil {
		_ = l.Output(3, fmt.Sprintf(format, v...))
	}
}
