// ABOUTME: Log command for recording a study session
// ABOUTME: Validates the form fields locally before creating the session

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/validate"
)

var (
	logTopic   string
	logMinutes string
	logDate    string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a study session",
	Long: `Record a study session.

Example:
  study log --topic "Linear algebra" --minutes 45 --date 2024-01-31`,
	Annotations: map[string]string{authKey: authRequired},
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runLog(ctx, w, logTopic, logMinutes, logDate)
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().StringVarP(&logTopic, "topic", "t", "", "What you studied")
	logCmd.Flags().StringVarP(&logMinutes, "minutes", "m", "", "Minutes studied (positive integer)")
	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "Session date YYYY-MM-DD (default: today)")
	_ = logCmd.RegisterFlagCompletionFunc("topic", completeTopics)
}

// completeTopics offers recently logged topics for --topic
func completeTopics(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	e, err := loadEnv()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer e.Close()
	return e.recent.Match(toComplete), cobra.ShellCompDirectiveNoFileComp
}

// runLog creates a session and returns exit code
func runLog(ctx context.Context, w io.Writer, topic, minutes, date string) int {
	if strings.TrimSpace(date) == "" {
		date = validate.Today()
	}
	n, err := validate.Session(topic, minutes, date)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	return withEnv(w, func(e *env) int {
		in := client.SessionInput{Topic: strings.TrimSpace(topic), Minutes: n, SessionDate: strings.TrimSpace(date)}
		s, err := e.api.CreateSession(ctx, in)
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Failed to create session"))
			return exitCodeFor(err)
		}
		if err := e.recent.Add(in.Topic); err != nil {
			slog.Warn("Could not save recent topic", "error", err)
		}

		if writeStructured(w, s) {
			return exitOK
		}
		fmt.Fprintln(w, formatLogged(s))
		return exitOK
	})
}

// formatLogged confirms a recorded session
func formatLogged(s *client.Session) string {
	msg := fmt.Sprintf("Session recorded! %d minutes of %s on %s", s.Minutes, s.Topic, s.SessionDate)
	if s.ID > 0 {
		msg += fmt.Sprintf(" (id %d)", s.ID)
	}
	return msg
}
