// ABOUTME: Configuration loader for the study CLI and TUI
// ABOUTME: Layers flags, environment, .env, and a YAML config file with viper

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName  = "study-tracker"
	fileName = "config"
	fileType = "yaml"

	// EnvPrefix namespaces environment overrides, e.g. STUDY_API_BASE
	EnvPrefix = "STUDY"

	// DefaultAPIBase is the local development backend
	DefaultAPIBase = "http://localhost:3001"
)

// Config keys
const (
	KeyAPIBase        = "api_base"
	KeyTimeout        = "timeout"
	KeyStorageBackend = "storage.backend"
	KeySupabaseURL    = "supabase.url"
	KeySupabaseKey    = "supabase.key"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyImportMaxSize  = "import.max_size"
)

// Keys lists every setting the config file may carry
var Keys = []string{
	KeyAPIBase,
	KeyTimeout,
	KeyStorageBackend,
	KeySupabaseURL,
	KeySupabaseKey,
	KeyLogLevel,
	KeyLogFormat,
	KeyImportMaxSize,
}

type Config struct {
	APIBase string
	Timeout time.Duration // zero means no client timeout

	StorageBackend string // file, sqlite, memory
	Dir            string // holds config.yaml, storage, and debug.log

	SupabaseURL string
	SupabaseKey string

	LogLevel  string
	LogFormat string

	ImportMaxSize datasize.ByteSize // zero means no limit
}

// SupabaseConfigured returns true if both scores settings are present
func (c *Config) SupabaseConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// Dir returns the config directory. STUDY_CONFIG_DIR overrides the
// XDG location, which is useful for tests and throwaway profiles.
func Dir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".config", appName)
}

// FilePath returns the full path to config.yaml
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// New returns a viper instance with defaults and environment bindings
// applied. Callers bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIBase, DefaultAPIBase)
	v.SetDefault(KeyTimeout, "0s")
	v.SetDefault(KeyStorageBackend, "file")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyImportMaxSize, "1MB")

	// The web frontend's variable names are honored as well
	_ = v.BindEnv(KeyAPIBase, EnvPrefix+"_API_BASE", "REACT_APP_API_BASE")
	_ = v.BindEnv(KeySupabaseURL, EnvPrefix+"_SUPABASE_URL", "SUPABASE_URL", "REACT_APP_SUPABASE_URL")
	_ = v.BindEnv(KeySupabaseKey, EnvPrefix+"_SUPABASE_KEY", "SUPABASE_KEY", "REACT_APP_SUPABASE_KEY")
	return v
}

// LoadDotEnv loads .env from the working directory if present. Variables
// already in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Debug("Loaded environment file", "path", path)
	return nil
}

// Load reads the config file (missing is fine) and resolves every setting
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		APIBase:        strings.TrimSpace(v.GetString(KeyAPIBase)),
		StorageBackend: strings.ToLower(v.GetString(KeyStorageBackend)),
		Dir:            Dir(),
		SupabaseURL:    strings.TrimSpace(v.GetString(KeySupabaseURL)),
		SupabaseKey:    strings.TrimSpace(v.GetString(KeySupabaseKey)),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}

	timeout, err := parseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout

	maxSize := strings.TrimSpace(v.GetString(KeyImportMaxSize))
	if err := cfg.ImportMaxSize.UnmarshalText([]byte(maxSize)); err != nil {
		return nil, fmt.Errorf("%s must be a size like 1MB, got %q", KeyImportMaxSize, maxSize)
	}

	switch cfg.StorageBackend {
	case "file", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("%s must be one of file, sqlite, memory, got %q", KeyStorageBackend, cfg.StorageBackend)
	}

	return cfg, nil
}

// parseTimeout accepts Go durations ("5s") or bare seconds ("5")
func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		d, err = time.ParseDuration(value + "s")
	}
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 10s, got %q", KeyTimeout, value)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %q", KeyTimeout, value)
	}
	return d, nil
}

// EnsureDir creates the config directory if it does not exist
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// IsKey reports whether key is a known setting
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a key-value pair to the config file, keeping other settings
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	// A fresh instance so environment overrides are not persisted
	v := viper.New()
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
