// ABOUTME: Badge widgets for quick visual status indication
// ABOUTME: Renders colored inline badges such as the signed-in marker

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/study-tracker/internal/tui/icons"
)

// StatusLevel represents the tone of a badge or message
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

var (
	badgeColors = map[StatusLevel][2]lipgloss.Color{
		StatusOK:       {"#10B981", "#FFFFFF"},
		StatusWarning:  {"#F59E0B", "#000000"},
		StatusCritical: {"#EF4444", "#FFFFFF"},
		StatusInfo:     {"#3B82F6", "#FFFFFF"},
		StatusNeutral:  {"#6B7280", "#FFFFFF"},
	}
	statusIcons = map[StatusLevel]icons.Icon{
		StatusOK:       icons.CheckOK,
		StatusWarning:  icons.Warning,
		StatusCritical: icons.Critical,
		StatusInfo:     icons.Info,
	}
)

func colorsFor(level StatusLevel) (bg, fg lipgloss.Color) {
	c, ok := badgeColors[level]
	if !ok {
		c = badgeColors[StatusNeutral]
	}
	return c[0], c[1]
}

// Badge renders a colored badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colorsFor(level)
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// AuthBadge shows who is signed in, or that the session is a guest
func AuthBadge(authenticated bool) string {
	if authenticated {
		return Badge(icons.User.String()+" signed in", StatusOK)
	}
	return Badge("guest", StatusNeutral)
}

// StatusIcon returns the colored icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colorsFor(level)
	icon, ok := statusIcons[level]
	if !ok {
		return lipgloss.NewStyle().Foreground(bg).Render("•")
	}
	return lipgloss.NewStyle().Foreground(bg).Render(icon.String())
}

// StatusText returns styled status text with icon, used for flash messages
func StatusText(text string, level StatusLevel) string {
	bg, _ := colorsFor(level)
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}
