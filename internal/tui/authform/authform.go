// ABOUTME: Login and register screens as a bubbletea model
// ABOUTME: Wraps a huh form and reports the entered credentials to the app

package authform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/study-tracker/internal/tui/styles"
	"github.com/markalston/study-tracker/internal/tui/widgets"
)

// Mode selects which screen the form stands in for
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "Register"
	}
	return "Login"
}

// SubmitMsg carries the credentials once the form is completed
type SubmitMsg struct {
	Mode     Mode
	Email    string
	Password string
}

// CancelledMsg is sent when the user leaves the form
type CancelledMsg struct{}

// Form is the login or register screen
type Form struct {
	mode     Mode
	form     *huh.Form
	email    string
	password string
	err      string
	notice   string
	busy     bool
}

// New creates the form, prefilled with email when known
func New(mode Mode, email string) *Form {
	f := &Form{mode: mode, email: email}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	description := "Sign in with your email and password"
	if f.mode == ModeRegister {
		description = "Passwords must be at least 8 characters"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&f.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password),
		).Title(f.mode.String()).
			Description(description),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Mode reports which screen this is
func (f *Form) Mode() Mode {
	return f.mode
}

// SetError shows a failure and resets the form for another attempt
func (f *Form) SetError(msg string) tea.Cmd {
	f.err = msg
	f.busy = false
	f.password = ""
	f.form = f.build()
	return f.form.Init()
}

// SetNotice shows an informational line above the form
func (f *Form) SetNotice(msg string) {
	f.notice = msg
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
	f.busy = true
	f.err = ""
	msg := SubmitMsg{Mode: f.mode, Email: strings.TrimSpace(f.email), Password: f.password}
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (f *Form) View() string {
	var b strings.Builder

	if f.notice != "" {
		b.WriteString(widgets.StatusText(f.notice, widgets.StatusInfo))
		b.WriteString("\n\n")
	}
	if f.busy {
		label := "Signing in..."
		if f.mode == ModeRegister {
			label = "Creating account..."
		}
		b.WriteString(styles.Dimmed.Render(label))
		return b.String()
	}

	b.WriteString(f.form.View())
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(widgets.StatusText(f.err, widgets.StatusCritical))
	}
	return b.String()
}
