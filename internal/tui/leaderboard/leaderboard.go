// ABOUTME: Leaderboard view showing all-time and last 30 days side by side
// ABOUTME: Draws a bar per entry scaled to the board leader

package leaderboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/tui/icons"
	"github.com/markalston/study-tracker/internal/tui/styles"
	"github.com/markalston/study-tracker/internal/tui/widgets"
)

const barWidth = 12

// Leaderboard displays both boards
type Leaderboard struct {
	board  *client.Leaderboard
	userID int64
	width  int
	err    string
}

// New creates a leaderboard view. userID highlights the signed-in user
// when non-zero.
func New(board *client.Leaderboard, userID int64, width int) *Leaderboard {
	return &Leaderboard{board: board, userID: userID, width: width}
}

// NewError creates a view that only shows a failure
func NewError(msg string, width int) *Leaderboard {
	return &Leaderboard{err: msg, width: width}
}

// SetWidth sets the available width
func (l *Leaderboard) SetWidth(width int) {
	l.width = width
}

// View renders the leaderboard
func (l *Leaderboard) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Leaderboard.String() + " Leaderboard"))
	sb.WriteString("\n")

	if l.err != "" {
		sb.WriteString(widgets.StatusText(l.err, widgets.StatusCritical))
		return sb.String()
	}
	if l.board == nil {
		sb.WriteString(styles.Dimmed.Render("Loading..."))
		return sb.String()
	}

	colWidth := (l.width - 4) / 2
	if colWidth < 30 {
		colWidth = 30
	}

	left := l.renderBoard("All time", l.board.AllTime, colWidth)
	right := l.renderBoard("Last 30 days", l.board.Last30Days, colWidth)

	// Stack the boards when two columns do not fit
	if l.width > 0 && l.width < 2*colWidth+4 {
		sb.WriteString(left + "\n\n" + right)
		return sb.String()
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(left),
		"    ",
		lipgloss.NewStyle().Width(colWidth).Render(right),
	))
	return sb.String()
}

func (l *Leaderboard) renderBoard(title string, entries []client.LeaderboardEntry, width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(title))
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString("No data.")
		return sb.String()
	}

	top := entries[0].TotalMinutes
	for _, e := range entries {
		if e.TotalMinutes > top {
			top = e.TotalMinutes
		}
	}

	emailWidth := width - barWidth - 14
	if emailWidth < 10 {
		emailWidth = 10
	}

	for i, e := range entries {
		style := styles.Normal
		color := styles.Primary
		if l.userID != 0 && e.UserID == l.userID {
			style = styles.Selected
			color = styles.Secondary
		}
		email := truncate(e.Email, emailWidth)
		line := fmt.Sprintf("%2d. %-*s %s %5d", i+1, emailWidth, email,
			widgets.MinutesBar(e.TotalMinutes, top, barWidth, color), e.TotalMinutes)
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
