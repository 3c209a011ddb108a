// ABOUTME: Compact metric block widget for summary displays
// ABOUTME: Combines icon, value, optional sparkline, and caption in a box

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/study-tracker/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       24,
		BorderColor: lipgloss.Color("#6B7280"), // Muted gray
		TitleColor:  lipgloss.Color("#7C3AED"), // Purple
		ValueColor:  lipgloss.Color("#F9FAFB"), // Light
	}
}

// MetricBlock renders a boxed value with a caption. spark is optional and
// drawn to the right of the value.
func MetricBlock(icon icons.Icon, title, value, caption string, spark []float64, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 24
	}
	inner := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), inner)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	top := "┌─ " + titleStyle.Render(titleStr) + " " +
		strings.Repeat("─", max(0, inner-lipgloss.Width(titleStr)-1)) + "┐"

	valueStr := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true).Render(value)
	if len(spark) > 0 {
		sparkWidth := max(0, inner-lipgloss.Width(value)-2)
		if sparkWidth > 10 {
			sparkWidth = 10
		}
		valueStr += "  " + Sparkline(spark, sparkWidth, config.TitleColor)
	}

	captionStr := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(truncate(caption, inner))

	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)
	return strings.Join([]string{
		borderStyle.Render(top),
		row(valueStr, inner, borderStyle),
		row(captionStr, inner, borderStyle),
		borderStyle.Render("└" + strings.Repeat("─", config.Width-2) + "┘"),
	}, "\n")
}

// CountBlock renders a simple count metric
func CountBlock(icon icons.Icon, title string, count int, caption string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), caption, nil, config)
}

// row pads styled content to the inner width between side borders
func row(content string, inner int, border lipgloss.Style) string {
	pad := max(0, inner-lipgloss.Width(content))
	return border.Render("│  ") + content + strings.Repeat(" ", pad) + border.Render("│")
}

// truncate shortens a string to maxLen with ellipsis if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
