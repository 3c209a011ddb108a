// ABOUTME: Scores commands backed by the optional Supabase scores table
// ABOUTME: Lists the latest scores and adds new ones

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/scores"
	"github.com/markalston/study-tracker/internal/validate"
)

var (
	scoreUsername string
	scoreValue    string
	scoreLevel    string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Latest scores from the scores table",
	Long: `Latest scores from the scores table.

Requires SUPABASE_URL and SUPABASE_KEY, in the environment or a .env file.`,
}

var scoresListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the latest scores",
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(runScoresList)
	},
}

var scoresAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a score",
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runScoresAdd(ctx, w, scoreUsername, scoreValue, scoreLevel)
		})
	},
}

func init() {
	rootCmd.AddCommand(scoresCmd)
	scoresCmd.AddCommand(scoresListCmd, scoresAddCmd)

	scoresAddCmd.Flags().StringVar(&scoreUsername, "username", "", "Player name")
	scoresAddCmd.Flags().StringVar(&scoreValue, "score", "", "Score value")
	scoresAddCmd.Flags().StringVar(&scoreLevel, "level", "", "Level name")
}

// runScoresList prints the newest scores
func runScoresList(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(e *env) int {
		sc := e.scoresClient()
		if !sc.Configured() {
			fmt.Fprintf(w, "Error: %v\n", scores.ErrNotConfigured)
			return exitError
		}
		sc.EnsureSession(ctx)

		list, err := sc.Latest(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Failed to load scores"))
			return exitError
		}

		if writeStructured(w, list) {
			return exitOK
		}
		fmt.Fprintln(w, formatScoresHuman(list))
		return exitOK
	})
}

func formatScoresHuman(list []scores.Score) string {
	if len(list) == 0 {
		return "No scores yet."
	}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.Username,
			strconv.FormatFloat(s.Score, 'f', -1, 64),
			s.Level,
			s.CreatedAt,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("USERNAME", "SCORE", "LEVEL", "CREATED").
		Rows(rows...).
		Render()
}

// runScoresAdd validates and inserts one score
func runScoresAdd(ctx context.Context, w io.Writer, username, score, level string) int {
	value, err := validate.ScoreEntry(username, score, level)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	return withEnv(w, func(e *env) int {
		sc := e.scoresClient()
		if !sc.Configured() {
			fmt.Fprintf(w, "Error: %v\n", scores.ErrNotConfigured)
			return exitError
		}
		sc.EnsureSession(ctx)

		err := sc.Add(ctx, scores.NewScore{Username: username, Score: value, Level: level})
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Failed to add score"))
			return exitCodeFor(err)
		}

		if writeStructured(w, map[string]bool{"success": true}) {
			return exitOK
		}
		fmt.Fprintln(w, "Score added.")
		return exitOK
	})
}
