// ABOUTME: File sink for TUI logging, written to debug.log in the config dir
// ABOUTME: Keeps slog output off the terminal while the TUI owns the screen

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the log file created inside the config directory
const FileName = "debug.log"

var (
	logFile *os.File
	mu      sync.Mutex
	enabled bool
)

// Init opens the debug log in configDir. If configDir is empty, logging is
// disabled and Writer discards everything.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		enabled = false
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		enabled = false
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		enabled = false
		return err
	}

	logFile = f
	enabled = true
	return nil
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	enabled = false
}

type sink struct{}

func (sink) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logFile == nil {
		return len(p), nil
	}
	return logFile.Write(p)
}

// Writer returns a writer for slog handlers. Writes after Close are dropped.
func Writer() io.Writer {
	return sink{}
}

// Error logs an error with the screen or action it came from
func Error(context string, err error) {
	if err == nil {
		return
	}
	slog.Error("TUI operation failed", "context", context, "error", err)
}
