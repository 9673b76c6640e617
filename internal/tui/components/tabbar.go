package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripdeck/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Schedule", Key: 's', KeyPos: 0},
	{Name: "Map", Key: 'm', KeyPos: 0},
	{Name: "Add Item", Key: 'a', KeyPos: 0},
	{Name: "Log", Key: 'l', KeyPos: 0},
}

// RenderTabBar renders the tab bar with the given active index and the trip
// name right-aligned.
func RenderTabBar(activeIdx int, width int, title string) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			before := tab.Name[:tab.KeyPos]
			key := string(tab.Name[tab.KeyPos])
			after := tab.Name[tab.KeyPos+1:]
			parts = append(parts, inactiveStyle.Render(before)+
				dimKeyStyle.Render("[")+keyStyle.Render(key)+dimKeyStyle.Render("]")+
				inactiveStyle.Render(after))
			continue
		}
		parts = append(parts, inactiveStyle.Render(tab.Name)+
			dimKeyStyle.Render("[")+keyStyle.Render(string(tab.Key))+dimKeyStyle.Render("]"))
	}

	left := " " + strings.Join(parts, "  ")
	right := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(title) + " "
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
