// ABOUTME: Sessions commands: list, update, delete, and import
// ABOUTME: Renders session history as a table with paging and filters

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/importer"
	"github.com/markalston/study-tracker/internal/validate"
)

var (
	listPage      int
	listSize      int
	listTopic     string
	listStartDate string
	listEndDate   string

	updateTopic   string
	updateMinutes string
	updateDate    string

	deleteYes bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage your study sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List study sessions",
	Annotations: map[string]string{authKey: authRequired},
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func(ctx context.Context, w io.Writer) int {
			opts := client.ListOptions{
				Page:      listPage,
				Size:      listSize,
				Topic:     listTopic,
				StartDate: listStartDate,
				EndDate:   listEndDate,
			}
			return runSessionsList(ctx, w, opts)
		})
	},
}

var sessionsUpdateCmd = &cobra.Command{
	Use:         "update ID",
	Short:       "Replace a session's topic, minutes, and date",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{authKey: authRequired},
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runSessionsUpdate(ctx, w, args[0], updateTopic, updateMinutes, updateDate)
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:         "delete ID",
	Short:       "Delete a session",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{authKey: authRequired},
	Run: func(cmd *cobra.Command, args []string) {
		if !deleteYes {
			confirmed, err := confirmDelete(args[0])
			if err != nil || !confirmed {
				fmt.Fprintln(os.Stdout, "Canceled.")
				return
			}
		}
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runSessionsDelete(ctx, w, args[0])
		})
	},
}

var sessionsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Create sessions from a JSON or YAML file",
	Long: `Create sessions from a JSON or YAML file.

The file holds a list of sessions, or the output of "sessions list --json":

  - topic: Calculus
    minutes: 45
    session_date: "2024-01-31"

Exit codes:
  0 - All sessions created
  1 - File failed validation, nothing was sent
  2 - One or more sessions could not be created`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{authKey: authRequired},
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runSessionsImport(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsUpdateCmd, sessionsDeleteCmd, sessionsImportCmd)

	sessionsListCmd.Flags().IntVar(&listPage, "page", client.DefaultPage, "Page number")
	sessionsListCmd.Flags().IntVar(&listSize, "size", client.DefaultSize, "Sessions per page")
	sessionsListCmd.Flags().StringVar(&listTopic, "topic", "", "Only sessions with this topic")
	_ = sessionsListCmd.RegisterFlagCompletionFunc("topic", completeTopics)
	sessionsListCmd.Flags().StringVar(&listStartDate, "from", "", "Only sessions on or after YYYY-MM-DD")
	sessionsListCmd.Flags().StringVar(&listEndDate, "to", "", "Only sessions on or before YYYY-MM-DD")

	sessionsUpdateCmd.Flags().StringVarP(&updateTopic, "topic", "t", "", "New topic")
	_ = sessionsUpdateCmd.RegisterFlagCompletionFunc("topic", completeTopics)
	sessionsUpdateCmd.Flags().StringVarP(&updateMinutes, "minutes", "m", "", "New minutes")
	sessionsUpdateCmd.Flags().StringVarP(&updateDate, "date", "d", "", "New date YYYY-MM-DD")
	for _, name := range []string{"topic", "minutes", "date"} {
		_ = sessionsUpdateCmd.MarkFlagRequired(name)
	}

	sessionsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

// parseSessionID accepts positive integers only
func parseSessionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("session id must be a positive integer, got %q", arg)
	}
	return id, nil
}

// runSessionsList prints one page of sessions and returns exit code
func runSessionsList(ctx context.Context, w io.Writer, opts client.ListOptions) int {
	for _, d := range []string{opts.StartDate, opts.EndDate} {
		if err := validate.OptionalDate(d); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitInvalid
		}
	}

	return withEnv(w, func(e *env) int {
		page, err := e.api.ListSessions(ctx, opts)
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Failed to load sessions"))
			return exitCodeFor(err)
		}

		if writeStructured(w, page) {
			return exitOK
		}
		fmt.Fprintln(w, formatSessionsHuman(page, opts))
		return exitOK
	})
}

// formatSessionsHuman renders a page as a table with totals
func formatSessionsHuman(page *client.SessionPage, opts client.ListOptions) string {
	current := opts.Page
	if current <= 0 {
		current = client.DefaultPage
	}
	summary := fmt.Sprintf("Total Sessions: %d • Total Minutes: %d", page.Total, page.TotalMinutes)

	if len(page.Items) == 0 {
		return "No sessions yet.\n" + summary
	}

	rows := make([][]string, 0, len(page.Items))
	for _, s := range page.Items {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Topic,
			strconv.Itoa(s.Minutes),
			s.SessionDate,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TOPIC", "MINUTES", "DATE").
		Rows(rows...)

	return fmt.Sprintf("%s\n%s • Page %d", t.Render(), summary, current)
}

// runSessionsUpdate replaces a session and returns exit code
func runSessionsUpdate(ctx context.Context, w io.Writer, idArg, topic, minutes, date string) int {
	id, err := parseSessionID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	n, err := validate.Session(topic, minutes, date)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	return withEnv(w, func(e *env) int {
		s, err := e.api.UpdateSession(ctx, id, client.SessionInput{
			Topic:       strings.TrimSpace(topic),
			Minutes:     n,
			SessionDate: strings.TrimSpace(date),
		})
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Update failed"))
			return exitCodeFor(err)
		}

		if writeStructured(w, s) {
			return exitOK
		}
		fmt.Fprintf(w, "Updated session %d: %d minutes of %s on %s\n", id, s.Minutes, s.Topic, s.SessionDate)
		return exitOK
	})
}

// confirmDelete asks before deleting when attached to a terminal
func confirmDelete(idArg string) (bool, error) {
	if !isTerminal(os.Stdin) {
		return false, fmt.Errorf("refusing to delete without --yes")
	}
	confirmed := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete session %s?", idArg)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	return confirmed, err
}

// runSessionsDelete deletes a session and returns exit code
func runSessionsDelete(ctx context.Context, w io.Writer, idArg string) int {
	id, err := parseSessionID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	return withEnv(w, func(e *env) int {
		res, err := e.api.DeleteSession(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Delete failed"))
			return exitCodeFor(err)
		}

		if writeStructured(w, res) {
			return exitOK
		}
		fmt.Fprintf(w, "Deleted session %d.\n", id)
		return exitOK
	})
}

// runSessionsImport validates a file and creates its sessions in order
func runSessionsImport(ctx context.Context, w io.Writer, path string) int {
	return withEnv(w, func(e *env) int {
		rows, err := importer.ParseFile(path, e.cfg.ImportMaxSize)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitInvalid
		}

		results := importer.Run(ctx, e.api, rows)
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if err := e.recent.Add(r.Input.Topic); err != nil {
				slog.Warn("Could not save recent topic", "error", err)
				break
			}
		}

		created, failed := importer.Counts(results)
		if IsJSONOutput() || IsYAMLOutput() {
			writeStructured(w, importReport(results, created, failed))
		} else {
			fmt.Fprintln(w, formatImportHuman(results, created, failed))
		}

		if failed > 0 {
			return exitError
		}
		return exitOK
	})
}

type importRow struct {
	Row     int             `json:"row" yaml:"row"`
	Session *client.Session `json:"session,omitempty" yaml:"session,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
}

func importReport(results []importer.Result, created, failed int) map[string]interface{} {
	rows := make([]importRow, 0, len(results))
	for _, r := range results {
		row := importRow{Row: r.Row, Session: r.Session}
		if r.Err != nil {
			row.Error = client.Message(r.Err, r.Err.Error())
		}
		rows = append(rows, row)
	}
	return map[string]interface{}{
		"created": created,
		"failed":  failed,
		"rows":    rows,
	}
}

// formatImportHuman lists each row's outcome followed by totals
func formatImportHuman(results []importer.Result, created, failed int) string {
	var sb strings.Builder
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&sb, "  ✗ row %d %s: %s\n", r.Row, r.Input.Topic, client.Message(r.Err, r.Err.Error()))
			continue
		}
		fmt.Fprintf(&sb, "  ✓ row %d %s (%d min, %s)\n", r.Row, r.Input.Topic, r.Input.Minutes, r.Input.SessionDate)
	}
	fmt.Fprintf(&sb, "\n%d created, %d failed", created, failed)
	return sb.String()
}
