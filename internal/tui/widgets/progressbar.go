// ABOUTME: Horizontal bar widgets for relative study time
// ABOUTME: Scales a value against the largest on screen

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CompactProgressBar renders a minimal bar for tight spaces
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	empty := width - filled

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", empty))
}

// MinutesBar renders minutes as a share of max. A non-zero value always
// shows at least one filled cell.
func MinutesBar(minutes, max, width int, color lipgloss.Color) string {
	if max <= 0 || minutes <= 0 {
		return CompactProgressBar(0, width, color)
	}
	percent := float64(minutes) / float64(max) * 100
	if min := 100.0 / float64(width); width > 0 && percent < min {
		percent = min
	}
	return CompactProgressBar(percent, width, color)
}
