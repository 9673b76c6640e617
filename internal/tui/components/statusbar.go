package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left, the
// latest notification (if any) and the data age on the right.
func RenderStatusBar(width int, hints string, note *notify.Notification, dataAge string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " " + hints
	var right string
	if note != nil {
		right = lipgloss.NewStyle().Foreground(theme.SeverityColor(note.Severity)).Bold(true).Render(note.Title) +
			" " + note.Message
	}
	if dataAge != "" {
		if right != "" {
			right += "  "
		}
		right += "Loaded " + dataAge
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// drop hints before the notification
		left = ""
		padding = max(0, width-lipgloss.Width(right))
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
