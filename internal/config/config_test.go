// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies precedence of env, file, and defaults plus validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
)

// isolate points the config dir at a temp dir and clears overrides
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STUDY_CONFIG_DIR", dir)
	for _, name := range []string{
		"STUDY_API_BASE", "REACT_APP_API_BASE", "STUDY_TIMEOUT", "STUDY_STORAGE_BACKEND",
		"STUDY_SUPABASE_URL", "SUPABASE_URL", "REACT_APP_SUPABASE_URL",
		"STUDY_SUPABASE_KEY", "SUPABASE_KEY", "REACT_APP_SUPABASE_KEY",
		"STUDY_LOG_LEVEL", "STUDY_LOG_FORMAT", "STUDY_IMPORT_MAX_SIZE",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBase != DefaultAPIBase {
		t.Errorf("expected default api base, got %q", cfg.APIBase)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout, got %v", cfg.Timeout)
	}
	if cfg.StorageBackend != "file" {
		t.Errorf("expected file storage, got %q", cfg.StorageBackend)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, cfg.Dir)
	}
	if cfg.SupabaseConfigured() {
		t.Error("expected supabase unconfigured")
	}
	if cfg.ImportMaxSize != datasize.MB {
		t.Errorf("expected 1MB import limit, got %s", cfg.ImportMaxSize)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := isolate(t)
	content := "api_base: http://file.example.com\ntimeout: 15s\nstorage:\n  backend: sqlite\nlog:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBase != "http://file.example.com" {
		t.Errorf("expected file api base, got %q", cfg.APIBase)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.Timeout)
	}
	if cfg.StorageBackend != "sqlite" {
		t.Errorf("expected sqlite, got %q", cfg.StorageBackend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %q", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_base: http://file.example.com\n"), 0600)
	t.Setenv("STUDY_API_BASE", "http://env.example.com")
	t.Setenv("STUDY_STORAGE_BACKEND", "memory")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBase != "http://env.example.com" {
		t.Errorf("expected env to win, got %q", cfg.APIBase)
	}
	if cfg.StorageBackend != "memory" {
		t.Errorf("expected memory, got %q", cfg.StorageBackend)
	}
}

func TestLoad_WebFrontendVariables(t *testing.T) {
	isolate(t)
	t.Setenv("REACT_APP_API_BASE", "http://react.example.com")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon-key")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBase != "http://react.example.com" {
		t.Errorf("expected REACT_APP_API_BASE honored, got %q", cfg.APIBase)
	}
	if !cfg.SupabaseConfigured() {
		t.Error("expected supabase configured from SUPABASE_URL/SUPABASE_KEY")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, env, value, want string
	}{
		{"backend", "STUDY_STORAGE_BACKEND", "redis", "storage.backend"},
		{"timeout", "STUDY_TIMEOUT", "soon", "timeout"},
		{"negative timeout", "STUDY_TIMEOUT", "-5s", "negative"},
		{"import size", "STUDY_IMPORT_MAX_SIZE", "huge", "import.max_size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tc.env, tc.value)

			_, err := Load(New())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"0s", 0},
		{"30", 30 * time.Second},
		{"1m", time.Minute},
	}
	for _, tc := range tests {
		got, err := parseTimeout(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("parseTimeout(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestSet(t *testing.T) {
	isolate(t)

	if err := Set(KeyAPIBase, "http://saved.example.com"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := Set(KeyLogLevel, "warn"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBase != "http://saved.example.com" {
		t.Errorf("expected saved api base, got %q", cfg.APIBase)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected first key kept after second Set, got %q", cfg.LogLevel)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	isolate(t)
	if err := Set("colour", "blue"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte("STUDY_LOG_FORMAT=json\n"), 0600)
	t.Setenv("STUDY_LOG_FORMAT", "")
	os.Unsetenv("STUDY_LOG_FORMAT")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected json from .env, got %q", cfg.LogFormat)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}
