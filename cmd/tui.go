// ABOUTME: TUI command launching the interactive interface
// ABOUTME: Routes logging to debug.log while the TUI owns the terminal

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/study-tracker/internal/logger"
	"github.com/markalston/study-tracker/internal/tui"
	"github.com/markalston/study-tracker/internal/tui/debuglog"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Long: `Open the interactive interface.

Logs are written to debug.log in the config directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runTUI(); code != exitOK {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() int {
	return withEnv(os.Stderr, func(e *env) int {
		dir := e.cfg.Dir
		if e.cfg.StorageBackend == "memory" {
			dir = ""
		}
		if err := debuglog.Init(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
		}
		defer debuglog.Close()
		logger.Init(debuglog.Writer(), e.cfg.LogLevel, e.cfg.LogFormat)

		ctx, cancel := signalContext()
		defer cancel()

		err := tui.Run(ctx, tui.Options{
			Client:  e.api,
			Tokens:  e.tokens,
			Recent:  e.recent,
			Scores:  e.scoresClient(),
			APIBase: e.cfg.APIBase,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	})
}
