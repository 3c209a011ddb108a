package debuglog

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterAppendsToFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	if _, err := Writer().Write([]byte("first line\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "first line") {
		t.Errorf("log = %q, want it to contain the written line", data)
	}
}

func TestWriterDiscardsWhenDisabled(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	n, err := Writer().Write([]byte("dropped"))
	if err != nil || n != len("dropped") {
		t.Errorf("Write = (%d, %v), want (%d, nil)", n, err, len("dropped"))
	}
}

func TestErrorGoesThroughSlog(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(Writer(), nil)))
	defer slog.SetDefault(prev)

	Error("sessions", errors.New("boom"))
	Error("ignored", nil)

	data, _ := os.ReadFile(filepath.Join(dir, FileName))
	log := string(data)
	if !strings.Contains(log, "context=sessions") || !strings.Contains(log, "error=boom") {
		t.Errorf("log = %q, want context and error attributes", log)
	}
	if strings.Contains(log, "ignored") {
		t.Errorf("nil error should not be logged: %q", log)
	}
}
