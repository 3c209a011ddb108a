// ABOUTME: Tests for the config commands
// ABOUTME: Verifies get, set, and validation of persisted settings

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunConfigSetThenGet(t *testing.T) {
	dir := isolate(t)

	var buf bytes.Buffer
	if code := runConfigSet(&buf, "api_base", "http://api.example.com"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config file to be written: %v", err)
	}

	buf.Reset()
	if code := runConfigGet(&buf, "api_base"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if got := strings.TrimSpace(buf.String()); got != "http://api.example.com" {
		t.Errorf("expected stored value, got %q", got)
	}
}

func TestRunConfigSet_RejectsInvalid(t *testing.T) {
	dir := isolate(t)

	var buf bytes.Buffer
	if code := runConfigSet(&buf, "timeout", "soon"); code != exitInvalid {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if code := runConfigSet(&buf, "no.such.key", "x"); code != exitInvalid {
		t.Errorf("expected exit code 1 for unknown key, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); !os.IsNotExist(err) {
		t.Error("invalid values must not be written")
	}
}

func TestRunConfigGet_All(t *testing.T) {
	isolate(t)

	var buf bytes.Buffer
	if code := runConfigGet(&buf, ""); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	for _, want := range []string{"api_base", "http://localhost:3001", "storage.backend", "file"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output %q", want, buf.String())
		}
	}
}
