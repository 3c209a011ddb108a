// ABOUTME: Session history screen with paging, topic filter, edit, and delete
// ABOUTME: Emits load and delete requests that the app runs against the API

package sessions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/tui/icons"
	"github.com/markalston/study-tracker/internal/tui/studyform"
	"github.com/markalston/study-tracker/internal/tui/styles"
	"github.com/markalston/study-tracker/internal/tui/widgets"
)

// PageSize is the number of sessions per screen page
const PageSize = 10

type state int

const (
	stateList state = iota
	stateFilter
	stateConfirm
	stateEdit
)

// LoadMsg asks the app to fetch a page
type LoadMsg struct {
	Options client.ListOptions
}

// DeleteMsg asks the app to delete a session
type DeleteMsg struct {
	ID int64
}

// BackMsg is sent when the user leaves the screen
type BackMsg struct{}

// Sessions is the history screen
type Sessions struct {
	state   state
	page    *client.SessionPage
	pageNum int
	topic   string
	cursor  int
	loading bool
	err     string
	flash   string
	width   int

	filter      textinput.Model
	edit        *studyform.Form
	suggestions []string
}

// New creates the screen; call Load to fetch the first page
func New(suggestions []string) *Sessions {
	ti := textinput.New()
	ti.Placeholder = "topic"
	ti.CharLimit = 100
	ti.Width = 30

	return &Sessions{
		pageNum:     1,
		filter:      ti,
		suggestions: suggestions,
	}
}

// Options returns the current listing parameters
func (s *Sessions) Options() client.ListOptions {
	return client.ListOptions{Page: s.pageNum, Size: PageSize, Topic: s.topic}
}

// Load marks the screen loading and requests the current page
func (s *Sessions) Load() tea.Cmd {
	s.loading = true
	opts := s.Options()
	return func() tea.Msg { return LoadMsg{Options: opts} }
}

// SetPage shows a fetched page
func (s *Sessions) SetPage(page *client.SessionPage) {
	s.loading = false
	s.err = ""
	s.page = page
	if s.cursor >= len(page.Items) {
		s.cursor = max(0, len(page.Items)-1)
	}
}

// SetError shows a failed load or delete
func (s *Sessions) SetError(msg string) {
	s.loading = false
	s.err = msg
}

// SetWidth sets the available width
func (s *Sessions) SetWidth(width int) {
	s.width = width
}

// Deleted reloads after a delete, stepping back when the page emptied
func (s *Sessions) Deleted() tea.Cmd {
	s.flash = "Session deleted."
	if s.page != nil && len(s.page.Items) <= 1 && s.pageNum > 1 {
		s.pageNum--
	}
	return s.Load()
}

// EditDone closes the edit form and reloads
func (s *Sessions) EditDone() tea.Cmd {
	s.state = stateList
	s.edit = nil
	s.flash = "Session updated."
	return s.Load()
}

// EditFailed keeps the edit form open with the failure shown
func (s *Sessions) EditFailed(msg string) tea.Cmd {
	if s.edit == nil {
		s.SetError(msg)
		return nil
	}
	return s.edit.SetError(msg)
}

// Editing reports whether the edit form is open
func (s *Sessions) Editing() bool {
	return s.state == stateEdit
}

// Filtering reports whether the topic filter has focus
func (s *Sessions) Filtering() bool {
	return s.state == stateFilter
}

// pageCount is the number of pages for the current total
func (s *Sessions) pageCount() int {
	if s.page == nil || s.page.Total <= 0 {
		return 1
	}
	return (s.page.Total + PageSize - 1) / PageSize
}

func (s *Sessions) selected() (client.Session, bool) {
	if s.page == nil || s.cursor >= len(s.page.Items) {
		return client.Session{}, false
	}
	return s.page.Items[s.cursor], true
}

// Init implements tea.Model
func (s *Sessions) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *Sessions) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s.state == stateEdit {
		return s.updateEdit(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.state == stateFilter {
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			return s, cmd
		}
		return s, nil
	}
	s.flash = ""

	switch s.state {
	case stateFilter:
		return s.updateFilter(key)
	case stateConfirm:
		return s.updateConfirm(key)
	default:
		return s.updateList(key)
	}
}

func (s *Sessions) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := 0
	if s.page != nil {
		count = len(s.page.Items)
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < count-1 {
			s.cursor++
		}
	case "left", "h", "p":
		if s.pageNum > 1 && !s.loading {
			s.pageNum--
			s.cursor = 0
			return s, s.Load()
		}
	case "right", "l", "n":
		if s.pageNum < s.pageCount() && !s.loading {
			s.pageNum++
			s.cursor = 0
			return s, s.Load()
		}
	case "/":
		s.state = stateFilter
		s.filter.SetValue(s.topic)
		s.filter.Focus()
		return s, textinput.Blink
	case "c":
		if s.topic != "" {
			s.topic = ""
			s.pageNum = 1
			return s, s.Load()
		}
	case "r":
		return s, s.Load()
	case "e", "enter":
		if sess, ok := s.selected(); ok {
			s.edit = studyform.NewEdit(sess, s.suggestions)
			s.state = stateEdit
			return s, s.edit.Init()
		}
	case "d", "delete":
		if _, ok := s.selected(); ok {
			s.state = stateConfirm
		}
	case "esc", "b":
		return s, func() tea.Msg { return BackMsg{} }
	}
	return s, nil
}

func (s *Sessions) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.state = stateList
		s.filter.Blur()
		return s, nil
	case "enter":
		s.state = stateList
		s.filter.Blur()
		s.topic = strings.TrimSpace(s.filter.Value())
		s.pageNum = 1
		s.cursor = 0
		return s, s.Load()
	}

	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	return s, cmd
}

func (s *Sessions) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		s.state = stateList
		sess, ok := s.selected()
		if !ok {
			return s, nil
		}
		return s, func() tea.Msg { return DeleteMsg{ID: sess.ID} }
	case "n", "N", "esc":
		s.state = stateList
	}
	return s, nil
}

func (s *Sessions) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(studyform.CancelledMsg); ok {
		s.state = stateList
		s.edit = nil
		return s, nil
	}
	model, cmd := s.edit.Update(msg)
	s.edit = model.(*studyform.Form)
	return s, cmd
}

// View implements tea.Model
func (s *Sessions) View() string {
	if s.state == stateEdit && s.edit != nil {
		return s.edit.View()
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(icons.Sessions.String() + " My sessions"))
	b.WriteString("\n")

	switch {
	case s.state == stateFilter:
		b.WriteString("Filter by topic: " + s.filter.View() + "\n\n")
	case s.topic != "":
		b.WriteString(styles.Dimmed.Render("Topic: "+s.topic+" (c to clear)") + "\n\n")
	}

	if s.err != "" {
		b.WriteString(widgets.StatusText(s.err, widgets.StatusCritical))
		b.WriteString("\n\n")
	}

	switch {
	case s.page == nil && s.loading:
		b.WriteString(styles.Dimmed.Render("Loading..."))
		return b.String()
	case s.page == nil:
		return b.String()
	}

	b.WriteString(s.viewSummary())
	b.WriteString("\n\n")

	if len(s.page.Items) == 0 {
		b.WriteString("No sessions yet.")
	} else {
		b.WriteString(s.viewTable())
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total Sessions: %d • Total Minutes: %d", s.page.Total, s.page.TotalMinutes))
	b.WriteString(styles.Dimmed.Render(fmt.Sprintf("   Page %d of %d", s.pageNum, s.pageCount())))

	switch {
	case s.state == stateConfirm:
		b.WriteString("\n\n")
		b.WriteString(widgets.StatusText("Delete this session? (y/n)", widgets.StatusWarning))
	case s.flash != "":
		b.WriteString("\n\n")
		b.WriteString(widgets.StatusText(s.flash, widgets.StatusOK))
	}
	return b.String()
}

func (s *Sessions) viewSummary() string {
	cfg := widgets.DefaultMetricBlockConfig()

	// Oldest first so the sparkline reads left to right
	var spark []float64
	for i := len(s.page.Items) - 1; i >= 0; i-- {
		spark = append(spark, float64(s.page.Items[i].Minutes))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Sessions, "Sessions", s.page.Total, "all time", cfg),
		" ",
		widgets.MetricBlock(icons.Clock, "Minutes", strconv.Itoa(s.page.TotalMinutes), "trend on this page", spark, cfg),
	)
}

func (s *Sessions) viewTable() string {
	rows := make([][]string, 0, len(s.page.Items))
	for _, item := range s.page.Items {
		rows = append(rows, []string{
			item.SessionDate,
			item.Topic,
			strconv.Itoa(item.Minutes),
		})
	}

	cursor := s.cursor
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers("DATE", "TOPIC", "MINUTES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Foreground(styles.Primary).Bold(true)
			case row == cursor:
				return base.Foreground(styles.Accent).Bold(true)
			}
			return base
		}).
		Render()
}
