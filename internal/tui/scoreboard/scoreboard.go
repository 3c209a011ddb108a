// ABOUTME: Scores screen listing the latest scores with an add form
// ABOUTME: Shows a configuration hint when the scores backend is not set up

package scoreboard

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/markalston/study-tracker/internal/scores"
	"github.com/markalston/study-tracker/internal/tui/icons"
	"github.com/markalston/study-tracker/internal/tui/styles"
	"github.com/markalston/study-tracker/internal/tui/widgets"
	"github.com/markalston/study-tracker/internal/validate"
)

// LoadMsg asks the app to fetch the latest scores
type LoadMsg struct{}

// AddMsg asks the app to insert a score
type AddMsg struct {
	Score scores.NewScore
}

// BackMsg is sent when the user leaves the screen
type BackMsg struct{}

// Scoreboard is the scores screen
type Scoreboard struct {
	configured bool
	list       []scores.Score
	loaded     bool
	err        string
	flash      string

	adding   bool
	form     *huh.Form
	username string
	score    string
	level    string
}

// New creates the screen
func New(configured bool) *Scoreboard {
	return &Scoreboard{configured: configured}
}

// Load requests the latest scores when configured
func (s *Scoreboard) Load() tea.Cmd {
	if !s.configured {
		return nil
	}
	return func() tea.Msg { return LoadMsg{} }
}

// SetScores shows a fetched list
func (s *Scoreboard) SetScores(list []scores.Score) {
	s.list = list
	s.loaded = true
	s.err = ""
}

// SetError shows a failure
func (s *Scoreboard) SetError(msg string) {
	s.err = msg
}

// Added closes the form and reloads
func (s *Scoreboard) Added() tea.Cmd {
	s.adding = false
	s.form = nil
	s.flash = "Score added."
	return s.Load()
}

// Adding reports whether the add form is open
func (s *Scoreboard) Adding() bool {
	return s.adding
}

func validateScore(v string) error {
	_, err := validate.Score(v)
	return err
}

func required(err error) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return err
		}
		return nil
	}
}

func (s *Scoreboard) openForm(username, score, level string) tea.Cmd {
	s.adding = true
	s.flash = ""
	s.username, s.score, s.level = username, score, level
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&s.username).Validate(required(validate.ErrUsernameRequired)),
			huh.NewInput().Title("Score").Placeholder("e.g., 42").Value(&s.score).Validate(validateScore),
			huh.NewInput().Title("Level").Value(&s.level).Validate(required(validate.ErrLevelRequired)),
		).Title("Add score"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
	return s.form.Init()
}

// Init implements tea.Model
func (s *Scoreboard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *Scoreboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s.adding {
		return s.updateForm(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	s.flash = ""
	switch key.String() {
	case "a":
		if s.configured {
			s.err = ""
			return s, s.openForm("", "", "")
		}
	case "r":
		return s, s.Load()
	case "esc", "b":
		return s, func() tea.Msg { return BackMsg{} }
	}
	return s, nil
}

func (s *Scoreboard) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		s.adding = false
		s.form = nil
		return s, nil
	}

	model, cmd := s.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		return s, s.submit()
	}
	return s, cmd
}

func (s *Scoreboard) submit() tea.Cmd {
	value, err := validate.ScoreEntry(s.username, s.score, s.level)
	if err != nil {
		s.err = err.Error()
		return s.openForm(s.username, s.score, s.level)
	}
	in := scores.NewScore{Username: strings.TrimSpace(s.username), Score: value, Level: strings.TrimSpace(s.level)}
	return func() tea.Msg { return AddMsg{Score: in} }
}

// AddFailed reopens the form with the failure shown
func (s *Scoreboard) AddFailed(msg string) tea.Cmd {
	s.err = msg
	return s.openForm(s.username, s.score, s.level)
}

// View implements tea.Model
func (s *Scoreboard) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(icons.Scores.String() + " Latest scores"))
	b.WriteString("\n")

	if !s.configured {
		b.WriteString(widgets.StatusText(scores.ErrNotConfigured.Error(), widgets.StatusWarning))
		return b.String()
	}

	if s.adding && s.form != nil {
		b.WriteString(s.form.View())
		if s.err != "" {
			b.WriteString("\n")
			b.WriteString(widgets.StatusText(s.err, widgets.StatusCritical))
		}
		return b.String()
	}

	if s.err != "" {
		b.WriteString(widgets.StatusText(s.err, widgets.StatusCritical))
		b.WriteString("\n\n")
	}

	switch {
	case !s.loaded:
		b.WriteString(styles.Dimmed.Render("Loading..."))
	case len(s.list) == 0:
		b.WriteString("No scores yet.")
	default:
		b.WriteString(s.viewTable())
	}

	if s.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(widgets.StatusText(s.flash, widgets.StatusOK))
	}
	return b.String()
}

func (s *Scoreboard) viewTable() string {
	rows := make([][]string, 0, len(s.list))
	for _, sc := range s.list {
		rows = append(rows, []string{
			sc.Username,
			strconv.FormatFloat(sc.Score, 'f', -1, 64),
			sc.Level,
			sc.CreatedAt,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers("USERNAME", "SCORE", "LEVEL", "CREATED").
		Rows(rows...).
		Render()
}
