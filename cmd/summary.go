// ABOUTME: Summary command combining profile, session totals, and rank
// ABOUTME: Fetches the three endpoints concurrently

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/study-tracker/internal/client"
)

var summaryCmd = &cobra.Command{
	Use:         "summary",
	Short:       "Show your totals, leaderboard rank, and recent topics",
	Annotations: map[string]string{authKey: authRequired},
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(runSummary)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// Summary is the combined view printed by the summary command
type Summary struct {
	Email          string   `json:"email" yaml:"email"`
	TotalSessions  int      `json:"total_sessions" yaml:"total_sessions"`
	TotalMinutes   int      `json:"total_minutes" yaml:"total_minutes"`
	RankAllTime    int      `json:"rank_all_time,omitempty" yaml:"rank_all_time,omitempty"`
	RankLast30Days int      `json:"rank_last_30_days,omitempty" yaml:"rank_last_30_days,omitempty"`
	RecentTopics   []string `json:"recent_topics" yaml:"recent_topics"`
}

// runSummary fetches me, sessions, and leaderboard in parallel
func runSummary(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(e *env) int {
		var (
			user  *client.User
			page  *client.SessionPage
			board *client.Leaderboard
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = e.api.Me(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			page, err = e.api.ListSessions(gctx, client.ListOptions{Page: 1, Size: 1})
			return err
		})
		g.Go(func() error {
			var err error
			board, err = e.api.Leaderboard(gctx, client.DefaultTop)
			return err
		})
		if err := g.Wait(); err != nil {
			return printError(w, err, "load summary")
		}

		s := buildSummary(user, page, board, e.recent.List())

		if writeStructured(w, s) {
			return exitOK
		}
		fmt.Fprintln(w, formatSummaryHuman(s))
		return exitOK
	})
}

func buildSummary(user *client.User, page *client.SessionPage, board *client.Leaderboard, recent []string) Summary {
	s := Summary{
		Email:          user.Email,
		TotalSessions:  page.Total,
		TotalMinutes:   page.TotalMinutes,
		RankAllTime:    rankOf(user.ID, board.AllTime),
		RankLast30Days: rankOf(user.ID, board.Last30Days),
		RecentTopics:   recent,
	}
	if s.RecentTopics == nil {
		s.RecentTopics = []string{}
	}
	return s
}

// rankOf returns the 1-based position of userID, or 0 when absent
func rankOf(userID int64, entries []client.LeaderboardEntry) int {
	for i, e := range entries {
		if e.UserID == userID {
			return i + 1
		}
	}
	return 0
}

func formatRank(rank int) string {
	if rank == 0 {
		return "not ranked"
	}
	return fmt.Sprintf("#%d", rank)
}

// formatStudyTime spells out minutes using the two largest units
func formatStudyTime(minutes int) string {
	if minutes <= 0 {
		return "none yet"
	}
	return durafmt.Parse(time.Duration(minutes) * time.Minute).LimitFirstN(2).String()
}

func formatSummaryHuman(s Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Signed in as %s\n\n", s.Email)
	fmt.Fprintf(&sb, "Total Sessions: %d • Total Minutes: %d\n", s.TotalSessions, s.TotalMinutes)
	fmt.Fprintf(&sb, "Time studied:   %s\n", formatStudyTime(s.TotalMinutes))
	fmt.Fprintf(&sb, "Leaderboard:    %s all time, %s last 30 days", formatRank(s.RankAllTime), formatRank(s.RankLast30Days))
	if len(s.RecentTopics) > 0 {
		fmt.Fprintf(&sb, "\nRecent topics:  %s", strings.Join(s.RecentTopics, ", "))
	}
	return sb.String()
}
