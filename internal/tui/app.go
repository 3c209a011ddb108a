// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, guards navigation, and runs API calls for child screens

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/guard"
	"github.com/markalston/study-tracker/internal/scores"
	"github.com/markalston/study-tracker/internal/tui/authform"
	"github.com/markalston/study-tracker/internal/tui/debuglog"
	"github.com/markalston/study-tracker/internal/tui/icons"
	"github.com/markalston/study-tracker/internal/tui/leaderboard"
	"github.com/markalston/study-tracker/internal/tui/menu"
	"github.com/markalston/study-tracker/internal/tui/scoreboard"
	"github.com/markalston/study-tracker/internal/tui/sessions"
	"github.com/markalston/study-tracker/internal/tui/styles"
	"github.com/markalston/study-tracker/internal/tui/studyform"
	"github.com/markalston/study-tracker/internal/tui/widgets"
	"github.com/markalston/study-tracker/internal/validate"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenLogin
	ScreenRegister
	ScreenStudy
	ScreenSessions
	ScreenLeaderboard
	ScreenScores
)

const (
	minTerminalWidth = 80 // frame never renders narrower than this
	panelPadding     = 4  // horizontal padding inside the content panel

	loginNotice           = "Please log in to continue."
	registeredNotice      = "Registration successful. Redirecting to login..."
	registerRedirectDelay = time.Second
)

// API is the part of the endpoint facade the TUI calls
type API interface {
	Register(ctx context.Context, cred client.Credentials) (*client.User, error)
	Login(ctx context.Context, cred client.Credentials) (*client.LoginResult, error)
	Logout()
	Me(ctx context.Context) (*client.User, error)
	CreateSession(ctx context.Context, in client.SessionInput) (*client.Session, error)
	ListSessions(ctx context.Context, opts client.ListOptions) (*client.SessionPage, error)
	UpdateSession(ctx context.Context, id int64, in client.SessionInput) (*client.Session, error)
	DeleteSession(ctx context.Context, id int64) (*client.DeleteResult, error)
	Leaderboard(ctx context.Context, top int) (*client.Leaderboard, error)
}

// ScoresAPI is the scores backend
type ScoresAPI interface {
	Configured() bool
	EnsureSession(ctx context.Context)
	Latest(ctx context.Context) ([]scores.Score, error)
	Add(ctx context.Context, in scores.NewScore) error
}

// RecentTopics supplies and records topic suggestions
type RecentTopics interface {
	Add(topic string) error
	List() []string
}

// Options wires the TUI to its collaborators
type Options struct {
	Client  API
	Tokens  guard.Authenticator
	Recent  RecentTopics
	Scores  ScoresAPI
	APIBase string
}

type authDoneMsg struct {
	mode  authform.Mode
	email string
	err   error
}

type sessionCreatedMsg struct {
	topic string
	err   error
}

type sessionsLoadedMsg struct {
	page *client.SessionPage
	err  error
}

type sessionUpdatedMsg struct {
	topic string
	err   error
}

type sessionDeletedMsg struct {
	err error
}

type leaderboardLoadedMsg struct {
	board  *client.Leaderboard
	userID int64
	err    error
}

type scoresLoadedMsg struct {
	list []scores.Score
	err  error
}

type scoreAddedMsg struct {
	err error
}

// redirectMsg navigates once a delayed transition fires
type redirectMsg struct {
	route guard.Route
	email string
}

// App is the root model for the TUI
type App struct {
	ctx        context.Context
	api        API
	scores     ScoresAPI
	recent     RecentTopics
	guard      *guard.Guard
	apiBase    string
	screen     Screen
	width      int
	height     int
	lastUpdate time.Time
	pending    guard.Route // where to go after login

	// Child models
	menu        *menu.Menu
	auth        *authform.Form
	study       *studyform.Form
	sessions    *sessions.Sessions
	leaderboard *leaderboard.Leaderboard
	scoreboard  *scoreboard.Scoreboard
}

// New creates a new TUI application
func New(ctx context.Context, opts Options) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	a := &App{
		ctx:     ctx,
		api:     opts.Client,
		scores:  opts.Scores,
		recent:  opts.Recent,
		guard:   guard.New(opts.Tokens),
		apiBase: opts.APIBase,
		screen:  ScreenMenu,
	}
	a.menu = menu.New(a.authenticated())
	return a
}

func (a *App) authenticated() bool {
	return a.guard.Auth != nil && a.guard.Auth.IsAuthenticated()
}

func (a *App) suggestions() []string {
	if a.recent == nil {
		return nil
	}
	return a.recent.List()
}

func (a *App) scoresConfigured() bool {
	return a.scores != nil && a.scores.Configured()
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.sessions != nil {
			a.sessions.SetWidth(a.contentWidth())
		}
		if a.leaderboard != nil {
			a.leaderboard.SetWidth(a.contentWidth())
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	// Navigation requests from children
	case menu.SelectedMsg:
		return a, a.navigate(msg.Route)
	case menu.LogoutMsg:
		return a, a.logout()
	case menu.QuitMsg:
		return a, tea.Quit
	case authform.CancelledMsg, sessions.BackMsg, scoreboard.BackMsg:
		return a, a.showMenu()
	case studyform.CancelledMsg:
		if a.screen == ScreenSessions && a.sessions != nil {
			break
		}
		return a, a.showMenu()
	case redirectMsg:
		if a.screen != ScreenRegister {
			return a, nil
		}
		if msg.route == guard.RouteLogin {
			a.auth = authform.New(authform.ModeLogin, msg.email)
			a.screen = ScreenLogin
			return a, a.auth.Init()
		}
		return a, a.navigate(msg.route)

	// API requests from children
	case authform.SubmitMsg:
		return a, a.authenticate(msg)
	case studyform.SubmitMsg:
		if msg.ID != 0 {
			return a, a.updateSession(msg.ID, msg.Input)
		}
		return a, a.createSession(msg.Input)
	case sessions.LoadMsg:
		return a, a.listSessions(msg.Options)
	case sessions.DeleteMsg:
		return a, a.deleteSession(msg.ID)
	case scoreboard.LoadMsg:
		return a, a.loadScores()
	case scoreboard.AddMsg:
		return a, a.addScore(msg.Score)

	// API results
	case authDoneMsg:
		return a.handleAuthDone(msg)
	case sessionCreatedMsg:
		return a.handleSessionCreated(msg)
	case sessionsLoadedMsg:
		return a.handleSessionsLoaded(msg)
	case sessionUpdatedMsg:
		return a.handleSessionUpdated(msg)
	case sessionDeletedMsg:
		return a.handleSessionDeleted(msg)
	case leaderboardLoadedMsg:
		return a.handleLeaderboardLoaded(msg)
	case scoresLoadedMsg:
		return a.handleScoresLoaded(msg)
	case scoreAddedMsg:
		return a.handleScoreAdded(msg)
	}

	return a.updateScreen(msg)
}

// updateScreen forwards input to the active child
func (a *App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenMenu:
		_, cmd = a.menu.Update(msg)
	case ScreenLogin, ScreenRegister:
		if a.auth != nil {
			_, cmd = a.auth.Update(msg)
		}
	case ScreenStudy:
		if a.study != nil {
			_, cmd = a.study.Update(msg)
		}
	case ScreenSessions:
		if a.sessions != nil {
			_, cmd = a.sessions.Update(msg)
		}
	case ScreenLeaderboard:
		cmd = a.updateLeaderboard(msg)
	case ScreenScores:
		if a.scoreboard != nil {
			_, cmd = a.scoreboard.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) updateLeaderboard(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "r":
		return a.loadLeaderboard()
	case "esc", "b":
		return a.showMenu()
	case "q":
		return tea.Quit
	}
	return nil
}

// navigate shows route, or the login screen when the guard redirects
func (a *App) navigate(route guard.Route) tea.Cmd {
	decision := a.guard.Check(route)
	slog.Debug("Navigation", "route", route, "state", decision.State, "target", decision.Target)

	if decision.State == guard.Redirected {
		a.pending = route
		a.auth = authform.New(authform.ModeLogin, "")
		a.auth.SetNotice(loginNotice)
		a.screen = ScreenLogin
		return a.auth.Init()
	}

	switch decision.Target {
	case guard.RouteLogin:
		a.auth = authform.New(authform.ModeLogin, "")
		a.screen = ScreenLogin
		return a.auth.Init()
	case guard.RouteRegister:
		a.pending = ""
		a.auth = authform.New(authform.ModeRegister, "")
		a.screen = ScreenRegister
		return a.auth.Init()
	case guard.RouteStudy:
		a.study = studyform.New(a.suggestions())
		a.screen = ScreenStudy
		return a.study.Init()
	case guard.RouteSessions:
		a.sessions = sessions.New(a.suggestions())
		a.sessions.SetWidth(a.contentWidth())
		a.screen = ScreenSessions
		return a.sessions.Load()
	case guard.RouteLeaderboard:
		a.leaderboard = leaderboard.New(nil, 0, a.contentWidth())
		a.screen = ScreenLeaderboard
		return a.loadLeaderboard()
	case guard.RouteScores:
		a.scoreboard = scoreboard.New(a.scoresConfigured())
		a.screen = ScreenScores
		return a.scoreboard.Load()
	}
	return nil
}

func (a *App) showMenu() tea.Cmd {
	a.pending = ""
	a.menu.SetAuthenticated(a.authenticated())
	a.screen = ScreenMenu
	return nil
}

func (a *App) logout() tea.Cmd {
	if a.api != nil {
		a.api.Logout()
	}
	slog.Info("Logged out")
	return a.showMenu()
}

func (a *App) authenticate(msg authform.SubmitMsg) tea.Cmd {
	if err := validate.Credentials(msg.Email, msg.Password); err != nil {
		return a.auth.SetError(err.Error())
	}
	ctx := a.ctx
	return func() tea.Msg {
		cred := client.Credentials{Email: msg.Email, Password: msg.Password}
		var err error
		if msg.Mode == authform.ModeRegister {
			_, err = a.api.Register(ctx, cred)
		} else {
			_, err = a.api.Login(ctx, cred)
		}
		return authDoneMsg{mode: msg.Mode, email: msg.Email, err: err}
	}
}

func (a *App) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if a.auth == nil {
		return a, nil
	}
	if msg.err != nil {
		debuglog.Error(msg.mode.String(), msg.err)
		fallback := "Login failed"
		if msg.mode == authform.ModeRegister {
			fallback = "Registration failed"
		}
		return a, a.auth.SetError(client.Message(msg.err, fallback))
	}

	if msg.mode == authform.ModeRegister {
		a.auth.SetNotice(registeredNotice)
		email := msg.email
		return a, tea.Tick(registerRedirectDelay, func(time.Time) tea.Msg {
			return redirectMsg{route: guard.RouteLogin, email: email}
		})
	}

	slog.Info("Logged in", "email", msg.email)
	a.menu.SetAuthenticated(a.authenticated())
	target := a.pending
	a.pending = ""
	if target == "" {
		target = guard.RouteStudy
	}
	return a, a.navigate(target)
}

func (a *App) createSession(in client.SessionInput) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		_, err := a.api.CreateSession(ctx, in)
		return sessionCreatedMsg{topic: in.Topic, err: err}
	}
}

func (a *App) rememberTopic(topic string) {
	if a.recent == nil {
		return
	}
	if err := a.recent.Add(topic); err != nil {
		slog.Warn("Could not save recent topic", "error", err)
	}
}

func (a *App) handleSessionCreated(msg sessionCreatedMsg) (tea.Model, tea.Cmd) {
	if a.study == nil {
		return a, nil
	}
	if msg.err != nil {
		debuglog.Error("create session", msg.err)
		return a, a.study.SetError(client.Message(msg.err, "Failed to create session"))
	}
	a.rememberTopic(msg.topic)
	a.lastUpdate = time.Now()
	return a, a.study.SetSuccess("Session recorded!", a.suggestions())
}

func (a *App) listSessions(opts client.ListOptions) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		page, err := a.api.ListSessions(ctx, opts)
		return sessionsLoadedMsg{page: page, err: err}
	}
}

func (a *App) handleSessionsLoaded(msg sessionsLoadedMsg) (tea.Model, tea.Cmd) {
	if a.sessions == nil {
		return a, nil
	}
	if msg.err != nil {
		debuglog.Error("list sessions", msg.err)
		a.sessions.SetError(client.Message(msg.err, "Failed to load sessions"))
		return a, nil
	}
	a.sessions.SetPage(msg.page)
	a.lastUpdate = time.Now()
	return a, nil
}

func (a *App) updateSession(id int64, in client.SessionInput) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		_, err := a.api.UpdateSession(ctx, id, in)
		return sessionUpdatedMsg{topic: in.Topic, err: err}
	}
}

func (a *App) handleSessionUpdated(msg sessionUpdatedMsg) (tea.Model, tea.Cmd) {
	if a.sessions == nil {
		return a, nil
	}
	if msg.err != nil {
		debuglog.Error("update session", msg.err)
		return a, a.sessions.EditFailed(client.Message(msg.err, "Update failed"))
	}
	a.rememberTopic(msg.topic)
	return a, a.sessions.EditDone()
}

func (a *App) deleteSession(id int64) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		_, err := a.api.DeleteSession(ctx, id)
		return sessionDeletedMsg{err: err}
	}
}

func (a *App) handleSessionDeleted(msg sessionDeletedMsg) (tea.Model, tea.Cmd) {
	if a.sessions == nil {
		return a, nil
	}
	if msg.err != nil {
		debuglog.Error("delete session", msg.err)
		a.sessions.SetError(client.Message(msg.err, "Delete failed"))
		return a, nil
	}
	return a, a.sessions.Deleted()
}

// loadLeaderboard fetches the boards and, when signed in, the current user
// so their rows can be highlighted
func (a *App) loadLeaderboard() tea.Cmd {
	ctx := a.ctx
	signedIn := a.authenticated()
	return func() tea.Msg {
		board, err := a.api.Leaderboard(ctx, client.DefaultTop)
		if err != nil {
			return leaderboardLoadedMsg{err: err}
		}
		var userID int64
		if signedIn {
			if user, err := a.api.Me(ctx); err == nil {
				userID = user.ID
			} else {
				slog.Debug("Could not load profile for leaderboard", "error", err)
			}
		}
		return leaderboardLoadedMsg{board: board, userID: userID}
	}
}

func (a *App) handleLeaderboardLoaded(msg leaderboardLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		debuglog.Error("leaderboard", msg.err)
		a.leaderboard = leaderboard.NewError(client.FriendlyMessage(msg.err, "load leaderboard"), a.contentWidth())
		return a, nil
	}
	a.leaderboard = leaderboard.New(msg.board, msg.userID, a.contentWidth())
	a.lastUpdate = time.Now()
	return a, nil
}

func (a *App) loadScores() tea.Cmd {
	if !a.scoresConfigured() {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		a.scores.EnsureSession(ctx)
		list, err := a.scores.Latest(ctx)
		return scoresLoadedMsg{list: list, err: err}
	}
}

func (a *App) handleScoresLoaded(msg scoresLoadedMsg) (tea.Model, tea.Cmd) {
	if a.scoreboard == nil {
		return a, nil
	}
	if msg.err != nil {
		debuglog.Error("load scores", msg.err)
		a.scoreboard.SetError(client.Message(msg.err, "Failed to load scores"))
		return a, nil
	}
	a.scoreboard.SetScores(msg.list)
	a.lastUpdate = time.Now()
	return a, nil
}

func (a *App) addScore(in scores.NewScore) tea.Cmd {
	if !a.scoresConfigured() {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		a.scores.EnsureSession(ctx)
		return scoreAddedMsg{err: a.scores.Add(ctx, in)}
	}
}

func (a *App) handleScoreAdded(msg scoreAddedMsg) (tea.Model, tea.Cmd) {
	if a.scoreboard == nil {
		return a, nil
	}
	if msg.err != nil {
		debuglog.Error("add score", msg.err)
		return a, a.scoreboard.AddFailed(client.Message(msg.err, "Failed to add score"))
	}
	return a, a.scoreboard.Added()
}

// View implements tea.Model
func (a *App) View() string {
	content := a.menu.View()

	switch a.screen {
	case ScreenLogin, ScreenRegister:
		if a.auth != nil {
			content = a.viewAuth()
		}
	case ScreenStudy:
		if a.study != nil {
			content = a.study.View()
		}
	case ScreenSessions:
		if a.sessions != nil {
			content = a.sessions.View()
		}
	case ScreenLeaderboard:
		if a.leaderboard != nil {
			content = a.leaderboard.View()
		}
	case ScreenScores:
		if a.scoreboard != nil {
			content = a.scoreboard.View()
		}
	}

	return a.wrapWithFrame(styles.Panel.Width(a.panelWidth()).Render(content))
}

func (a *App) viewAuth() string {
	icon := icons.Login
	if a.auth.Mode() == authform.ModeRegister {
		icon = icons.Register
	}
	return styles.Title.Render(icon.String()+" "+a.auth.Mode().String()) + "\n" + a.auth.View()
}

// frameWidth is one column short of the terminal so the frame never wraps
func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

// panelWidth excludes the panel border
func (a *App) panelWidth() int {
	return a.frameWidth() - 2
}

// contentWidth is the width available inside the content panel
func (a *App) contentWidth() int {
	return a.panelWidth() - panelPadding
}

// renderHeader creates the header bar with app branding and login state
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)

	leftRendered := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Study Tracker"))
	rightRendered := " " + widgets.AuthBadge(a.authenticated()) + " "
	if a.apiBase != "" {
		rightRendered = " " + styles.Dimmed.Render(a.apiBase) + rightRendered
	}

	fillWidth := width - 4 - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╭─") + leftRendered +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightRendered + borderStyle.Render("─╮")
}

// shortcuts lists the footer key hints for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenLogin, ScreenRegister, ScreenStudy:
		return []string{"Tab Next", "Enter Submit", "Esc Back"}
	case ScreenSessions:
		if a.sessions != nil && (a.sessions.Editing() || a.sessions.Filtering()) {
			return []string{"Enter Apply", "Esc Cancel"}
		}
		return []string{"←→ Page", "/ Filter", "e Edit", "d Delete", "b Back"}
	case ScreenLeaderboard:
		return []string{"r Refresh", "b Back", "q Quit"}
	case ScreenScores:
		if a.scoreboard != nil && a.scoreboard.Adding() {
			return []string{"Enter Submit", "Esc Cancel"}
		}
		return []string{"a Add", "r Refresh", "b Back"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styled := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		if k, label, ok := strings.Cut(s, " "); ok {
			styled = append(styled, keyStyle.Render(k)+" "+labelStyle.Render(label))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "

	rightText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenMenu {
		rightText = " " + statusStyle.Render("Updated "+a.formatTimeSince(a.lastUpdate)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╰─") + leftText +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightText + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits or ctx is done
func Run(ctx context.Context, opts Options) error {
	app := New(ctx, opts)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
