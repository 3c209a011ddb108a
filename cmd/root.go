// ABOUTME: Root command for the study CLI
// ABOUTME: Handles global flags, configuration, logging, and the login guard

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/config"
	"github.com/markalston/study-tracker/internal/guard"
	"github.com/markalston/study-tracker/internal/logger"
	"github.com/markalston/study-tracker/internal/recenttopics"
	"github.com/markalston/study-tracker/internal/scores"
	"github.com/markalston/study-tracker/internal/storage"
	"github.com/markalston/study-tracker/internal/tokenstore"
)

var (
	apiURL       string
	jsonOutput   bool
	outputFormat string
	envFile      string
)

// Exit codes
const (
	exitOK       = 0
	exitInvalid  = 1 // input rejected before or by the API
	exitError    = 2 // connectivity, server, or login required
	authRequired = "required"
	authKey      = "auth"
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "study",
	Short: "Track study sessions from the terminal",
	Long: `study is a command-line client for the Study Tracker API.

Log study sessions, review and edit your history, and compare study time
on the leaderboard. Run "study tui" for the interactive interface.

Environment Variables:
  STUDY_API_BASE      Backend API URL (default: http://localhost:3001)
  STUDY_TIMEOUT       Request timeout, e.g. 10s (default: none)
  STUDY_CONFIG_DIR    Config, storage, and log directory
  SUPABASE_URL        Scores project URL
  SUPABASE_KEY        Scores anon key`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		cfg, err := config.Load(config.New())
		if err != nil {
			if isConfigCommand(cmd) {
				// Leave a way to repair a broken config file
				return nil
			}
			return err
		}
		if cmd.Name() != "tui" {
			logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		}

		if code := checkAuth(cmd, os.Stderr); code != exitOK {
			os.Exit(code)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides STUDY_API_BASE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
}

// GetAPIURL returns the API URL from flag, env, config file, or default
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	cfg, err := config.Load(config.New())
	if err != nil {
		return config.DefaultAPIBase
	}
	return cfg.APIBase
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput || strings.EqualFold(outputFormat, "json")
}

// IsYAMLOutput returns whether YAML output is requested
func IsYAMLOutput() bool {
	return !jsonOutput && strings.EqualFold(outputFormat, "yaml")
}

// writeStructured prints v as JSON or YAML when requested and reports
// whether it did
func writeStructured(w io.Writer, v interface{}) bool {
	switch {
	case IsJSONOutput():
		data, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(data))
		return true
	case IsYAMLOutput():
		data, err := yaml.Marshal(v)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return true
		}
		fmt.Fprint(w, string(data))
		return true
	}
	return false
}

// signalContext is canceled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runAndExit runs fn with a signal-aware context and exits non-zero on failure
func runAndExit(fn func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signalContext()
	defer cancel()

	exitCode := fn(ctx, os.Stdout)
	if exitCode != exitOK {
		os.Exit(exitCode)
	}
}

// env bundles what a command needs for one invocation
type env struct {
	cfg    *config.Config
	store  storage.Storage
	tokens *tokenstore.Store
	api    *client.Client
	guard  *guard.Guard
	recent *recenttopics.RecentTopics
}

// loadEnv resolves configuration and opens durable storage
func loadEnv() (*env, error) {
	cfg, err := config.Load(config.New())
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBase = apiURL
	}

	if cfg.StorageBackend != storage.BackendMemory {
		if err := config.EnsureDir(); err != nil {
			return nil, err
		}
	}
	store, err := storage.Open(cfg.StorageBackend, cfg.Dir)
	if err != nil {
		return nil, err
	}

	tokens := tokenstore.New(store)
	opts := []client.Option{client.WithTokenStore(tokens)}
	if cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.Timeout))
	}

	return &env{
		cfg:    cfg,
		store:  store,
		tokens: tokens,
		api:    client.New(cfg.APIBase, opts...),
		guard:  guard.New(tokens),
		recent: recenttopics.New(store),
	}, nil
}

// scoresClient builds the scores client from configuration
func (e *env) scoresClient() *scores.Client {
	var opts []client.Option
	if e.cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(e.cfg.Timeout))
	}
	return scores.New(e.cfg.SupabaseURL, e.cfg.SupabaseKey, opts...)
}

// Close releases storage handles
func (e *env) Close() {
	if c, ok := e.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Debug("Closing storage failed", "error", err)
		}
	}
}

// withEnv loads the environment or reports why it could not
func withEnv(w io.Writer, fn func(e *env) int) int {
	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer e.Close()
	return fn(e)
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// routeFor maps a command to the screen it stands in for
func routeFor(cmd *cobra.Command) guard.Route {
	if cmd.Annotations[authKey] != authRequired {
		return ""
	}
	if cmd.Parent() != nil && cmd.Parent().Name() == "sessions" {
		return guard.RouteSessions
	}
	if cmd.Name() == "sessions" {
		return guard.RouteSessions
	}
	return guard.RouteStudy
}

// checkAuth applies the guard to commands annotated auth: required
func checkAuth(cmd *cobra.Command, w io.Writer) int {
	route := routeFor(cmd)
	if route == "" {
		return exitOK
	}
	return withEnv(w, func(e *env) int {
		if e.guard.Check(route).State == guard.Redirected {
			fmt.Fprintln(w, `Login required. Run "study login" first.`)
			return exitError
		}
		return exitOK
	})
}

// exitCodeFor classifies an API failure
func exitCodeFor(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && (apiErr.Local || apiErr.Status == 400 || apiErr.Status == 422) {
		return exitInvalid
	}
	return exitError
}

// printError reports err the way a screen would, using fallback when the
// failure carries no API message
func printError(w io.Writer, err error, action string) int {
	fmt.Fprintf(w, "Error: %s\n", client.FriendlyMessage(err, action))
	return exitCodeFor(err)
}
