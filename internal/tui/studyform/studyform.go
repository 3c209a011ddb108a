// ABOUTME: Session form used to log a new session or edit an existing one
// ABOUTME: Validates fields inline and suggests recently used topics

package studyform

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/tui/styles"
	"github.com/markalston/study-tracker/internal/tui/widgets"
	"github.com/markalston/study-tracker/internal/validate"
)

// SubmitMsg carries a validated session. ID is zero for a new session.
type SubmitMsg struct {
	ID    int64
	Input client.SessionInput
}

// CancelledMsg is sent when the user leaves the form
type CancelledMsg struct{}

// Form is a session form
type Form struct {
	id          int64
	title       string
	suggestions []string
	form        *huh.Form

	topic   string
	minutes string
	date    string

	err     string
	success string
	busy    bool
}

// New creates an empty form for logging a session dated today
func New(suggestions []string) *Form {
	f := &Form{title: "Log a study session", suggestions: suggestions, date: validate.Today()}
	f.form = f.build()
	return f
}

// NewEdit creates a form prefilled from an existing session
func NewEdit(s client.Session, suggestions []string) *Form {
	f := &Form{
		id:          s.ID,
		title:       "Edit session " + strconv.FormatInt(s.ID, 10),
		suggestions: suggestions,
		topic:       s.Topic,
		minutes:     strconv.Itoa(s.Minutes),
		date:        s.SessionDate,
	}
	f.form = f.build()
	return f
}

func validateMinutes(s string) error {
	_, err := validate.Minutes(s)
	return err
}

func (f *Form) build() *huh.Form {
	topic := huh.NewInput().
		Title("Topic").
		Placeholder("e.g., Linear algebra").
		Value(&f.topic).
		Validate(validate.Topic)
	if len(f.suggestions) > 0 {
		topic = topic.
			Suggestions(f.suggestions).
			Description("Tab completes a recent topic")
	}

	return huh.NewForm(
		huh.NewGroup(
			topic,
			huh.NewInput().
				Title("Minutes").
				Placeholder("e.g., 45").
				CharLimit(5).
				Value(&f.minutes).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Date").
				Placeholder(validate.DateLayout).
				CharLimit(10).
				Value(&f.date).
				Validate(validate.Date),
		).Title(f.title),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// IsEdit reports whether the form edits an existing session
func (f *Form) IsEdit() bool {
	return f.id != 0
}

// SetError shows a failure and lets the user retry with the same values
func (f *Form) SetError(msg string) tea.Cmd {
	f.err = msg
	f.success = ""
	f.busy = false
	f.form = f.build()
	return f.form.Init()
}

// SetSuccess shows a confirmation and clears the form for the next session
func (f *Form) SetSuccess(msg string, suggestions []string) tea.Cmd {
	f.success = msg
	f.err = ""
	f.busy = false
	f.topic, f.minutes = "", ""
	f.suggestions = suggestions
	f.form = f.build()
	return f.form.Init()
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}
	if f.busy {
		return f, nil
	}

	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submit()
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	n, err := validate.Session(f.topic, f.minutes, f.date)
	if err != nil {
		return f.SetError(err.Error())
	}

	f.busy = true
	f.err, f.success = "", ""
	msg := SubmitMsg{
		ID: f.id,
		Input: client.SessionInput{
			Topic:       strings.TrimSpace(f.topic),
			Minutes:     n,
			SessionDate: strings.TrimSpace(f.date),
		},
	}
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (f *Form) View() string {
	var b strings.Builder

	if f.busy {
		b.WriteString(styles.Dimmed.Render("Saving..."))
		return b.String()
	}

	b.WriteString(f.form.View())
	switch {
	case f.err != "":
		b.WriteString("\n")
		b.WriteString(widgets.StatusText(f.err, widgets.StatusCritical))
	case f.success != "":
		b.WriteString("\n")
		b.WriteString(widgets.StatusText(f.success, widgets.StatusOK))
	}
	return b.String()
}
