// ABOUTME: Main navigation menu for the TUI
// ABOUTME: Lists screens, marks those that need login, and offers login or logout

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/study-tracker/internal/guard"
	"github.com/markalston/study-tracker/internal/tui/icons"
	"github.com/markalston/study-tracker/internal/tui/styles"
)

// Action is what choosing an item does
type Action int

const (
	ActionNavigate Action = iota
	ActionLogout
	ActionQuit
)

// SelectedMsg is sent when a screen is chosen
type SelectedMsg struct {
	Route guard.Route
}

// LogoutMsg is sent when the user chooses to log out
type LogoutMsg struct{}

// QuitMsg is sent when the user leaves the menu
type QuitMsg struct{}

type item struct {
	label  string
	icon   icons.Icon
	action Action
	route  guard.Route
}

// Menu is the navigation list
type Menu struct {
	items         []item
	cursor        int
	authenticated bool
}

// New creates the menu for the current login state
func New(authenticated bool) *Menu {
	m := &Menu{}
	m.SetAuthenticated(authenticated)
	return m
}

// SetAuthenticated rebuilds the items after login or logout
func (m *Menu) SetAuthenticated(authenticated bool) {
	m.authenticated = authenticated
	m.items = []item{
		{label: "Log a session", icon: icons.Study, route: guard.RouteStudy},
		{label: "My sessions", icon: icons.Sessions, route: guard.RouteSessions},
		{label: "Leaderboard", icon: icons.Leaderboard, route: guard.RouteLeaderboard},
		{label: "Scores", icon: icons.Scores, route: guard.RouteScores},
	}
	if authenticated {
		m.items = append(m.items, item{label: "Logout", icon: icons.Logout, action: ActionLogout})
	} else {
		m.items = append(m.items,
			item{label: "Login", icon: icons.Login, route: guard.RouteLogin},
			item{label: "Register", icon: icons.Register, route: guard.RouteRegister},
		)
	}
	m.items = append(m.items, item{label: "Quit", icon: icons.Quit, action: ActionQuit})

	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		return m, m.choose(m.items[m.cursor])
	case "q", "esc":
		return m, func() tea.Msg { return QuitMsg{} }
	}
	return m, nil
}

func (m *Menu) choose(it item) tea.Cmd {
	switch it.action {
	case ActionLogout:
		return func() tea.Msg { return LogoutMsg{} }
	case ActionQuit:
		return func() tea.Msg { return QuitMsg{} }
	}
	route := it.route
	return func() tea.Msg { return SelectedMsg{Route: route} }
}

// View implements tea.Model
func (m *Menu) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Study Tracker"))
	b.WriteString("\n")

	for i, it := range m.items {
		cursor := "  "
		style := styles.Normal
		if i == m.cursor {
			cursor = "> "
			style = styles.Selected
		}
		line := it.icon.String() + " " + it.label
		if it.action == ActionNavigate && guard.IsProtected(it.route) && !m.authenticated {
			line += " " + styles.Dimmed.Render(icons.Lock.String()+" login required")
		}
		b.WriteString(cursor + style.Render(line) + "\n")
	}

	return b.String()
}
