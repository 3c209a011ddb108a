// ABOUTME: Leaderboard command showing top study time
// ABOUTME: Public endpoint, no login required

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/markalston/study-tracker/internal/client"
)

var leaderboardTop int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the all-time and last 30 days leaderboards",
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runLeaderboard(ctx, w, leaderboardTop)
		})
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.Flags().IntVar(&leaderboardTop, "top", client.DefaultTop, "Number of entries per board")
}

// runLeaderboard fetches and prints both boards
func runLeaderboard(ctx context.Context, w io.Writer, top int) int {
	return withEnv(w, func(e *env) int {
		board, err := e.api.Leaderboard(ctx, top)
		if err != nil {
			return printError(w, err, "load leaderboard")
		}

		if writeStructured(w, board) {
			return exitOK
		}
		fmt.Fprintln(w, formatLeaderboardHuman(board))
		return exitOK
	})
}

// formatLeaderboardHuman renders both boards one after the other
func formatLeaderboardHuman(board *client.Leaderboard) string {
	var sb strings.Builder
	sb.WriteString(formatBoard("All time", board.AllTime))
	sb.WriteString("\n\n")
	sb.WriteString(formatBoard("Last 30 days", board.Last30Days))
	return sb.String()
}

func formatBoard(title string, entries []client.LeaderboardEntry) string {
	if len(entries) == 0 {
		return title + "\nNo data."
	}

	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.Email,
			strconv.Itoa(entry.TotalMinutes),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "EMAIL", "MINUTES").
		Rows(rows...)
	return title + "\n" + t.Render()
}
