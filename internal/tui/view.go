package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripdeck/internal/cli"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/pipeline"
	"github.com/theirongolddev/tripdeck/internal/schedule"
	"github.com/theirongolddev/tripdeck/internal/trip"
	"github.com/theirongolddev/tripdeck/internal/tui/components"
	"github.com/theirongolddev/tripdeck/internal/tui/theme"
)

// scheduleRow is one selectable line of the schedule tab.
type scheduleRow struct {
	heading string // non-empty on the first item of a day group
	item    model.ItineraryItem
}

func flattenSchedule(d *pipeline.Dashboard) []scheduleRow {
	var rows []scheduleRow
	for _, day := range d.Schedule.Days {
		for i, it := range day.Items {
			r := scheduleRow{item: it}
			if i == 0 {
				r.heading = day.Label
			}
			rows = append(rows, r)
		}
	}
	for i, it := range d.Schedule.Unscheduled {
		r := scheduleRow{item: it}
		if i == 0 {
			r.heading = "Unscheduled"
		}
		rows = append(rows, r)
	}
	return rows
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  tripdeck needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ tripdeck"))
	b.WriteString(mutedStyle.Render(" · " + tripTitle(a.deps.Trip)))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" Loading trip data [%d/%d]", a.progress, a.progressMax)))
	} else {
		b.WriteString(mutedStyle.Render(" Loading trip data"))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Width(14)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	binds := [][2]string{
		{"s m a l", "switch tab"},
		{"tab", "next tab"},
		{"j / k", "move cursor"},
		{"enter", "focus item on map / pick result"},
		{"+ / -", "zoom map in / out"},
		{"0", "reset map view"},
		{"r", "reload trip"},
		{"esc", "leave search or drop selection"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("Keys"))
	b.WriteString("\n\n")
	for _, kb := range binds {
		b.WriteString(keyStyle.Render(kb[0]) + descStyle.Render(kb[1]) + "\n")
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderBright).Padding(1, 3)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}

func (a App) viewMain() string {
	w, h := a.width, a.height

	header := components.RenderTabBar(a.activeTab, w, tripTitle(a.deps.Trip))

	var note *notify.Notification
	if n, ok := a.recorder.Last(); ok {
		note = &n
	}
	age := ""
	if a.dash != nil {
		age = fmt.Sprintf("%.1fs", a.dash.LoadTime.Seconds())
	}
	statusBar := components.RenderStatusBar(w, a.hints(), note, age)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil && a.dash == nil:
		content = a.renderLoadError()
	case a.activeTab == tabSchedule:
		content = a.renderSchedule(w, contentH)
	case a.activeTab == tabMap:
		content = a.renderMap(w, contentH)
	case a.activeTab == tabAdd:
		content = a.renderAdd(w)
	case a.activeTab == tabLog:
		content = a.renderLog(contentH)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) hints() string {
	switch a.activeTab {
	case tabMap:
		return "[+/-]zoom  [0]reset  [enter]focus  [?]help  [q]uit"
	case tabAdd:
		if a.add.form != nil {
			return "[enter]next  [esc]back"
		}
		return "[↑/↓]choose  [enter]select  [esc]leave"
	default:
		return "[enter]show on map  [r]eload  [?]help  [q]uit"
	}
}

func (a App) renderLoadError() string {
	t := theme.Active
	return "\n  " + lipgloss.NewStyle().Foreground(t.Red).Bold(true).Render("Could not load trip") +
		"\n\n  " + lipgloss.NewStyle().Foreground(t.TextMuted).Render(a.loadErr.Error()) +
		"\n\n  Press r to retry."
}

func (a App) renderTripHeader() string {
	t := theme.Active
	tr := a.deps.Trip
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	parts := []string{cli.FormatDateRange(tr), trip.StatusOf(tr, a.now(), a.deps.Location).String()}
	if tr.Budget > 0 {
		pct := trip.BudgetPercent(tr.Budget, tr.TotalSpent)
		parts = append(parts, fmt.Sprintf("%s of %s %s",
			cli.FormatCurrency(tr.TotalSpent), cli.FormatCurrency(tr.Budget), cli.RenderBudgetBar(pct, 12)))
	}
	parts = append(parts, "Distance "+cli.FormatDistance(tr.TotalDistanceKm))
	return " " + muted.Render(strings.Join(parts, "  ·  "))
}

func (a App) renderSchedule(w, h int) string {
	t := theme.Active
	if len(a.rows) == 0 {
		return a.renderTripHeader() + "\n\n  " +
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No itinerary items yet. Press a to add one.")
	}

	headStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	timeStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(10)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Background(t.SurfaceHover).Foreground(t.TextPrimary).Bold(true)

	var lines []string
	cursorLine := 0
	for i, r := range a.rows {
		if r.heading != "" {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, " "+headStyle.Render(r.heading))
		}
		when := ""
		if r.item.PlannedAt != nil {
			when = schedule.FormatTime(*r.item.PlannedAt, a.deps.Location)
		}
		dot := lipgloss.NewStyle().Foreground(theme.CategoryColor(r.item.Category)).Render("●")
		pin := " "
		if r.item.Location == nil {
			pin = lipgloss.NewStyle().Foreground(t.TextDim).Render("∅")
		}
		dur := ""
		if r.item.DurationHours != nil {
			dur = "  " + cli.FormatHours(r.item.DurationHours)
		}
		text := cli.Truncate(r.item.Name, max(10, w-40)) +
			lipgloss.NewStyle().Foreground(t.TextDim).Render(dur+"  "+string(r.item.Category))
		line := "  " + dot + " " + timeStyle.Render(when) + pin + " "
		if i == a.schedCursor {
			cursorLine = len(lines)
			line += selStyle.Render(text)
		} else {
			line += nameStyle.Render(text)
		}
		lines = append(lines, line)
	}

	body := scrollWindow(lines, cursorLine, h-2)
	return a.renderTripHeader() + "\n\n" + strings.Join(body, "\n")
}

func (a App) renderMap(w, h int) string {
	t := theme.Active
	v := a.board.View()
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	head := fmt.Sprintf(" Center %s  Zoom %d", cli.FormatCoordinate(&v.Center), v.Zoom)
	if v.Default {
		head += muted.Render("  (default view, nothing to show)")
	}
	if sel := a.board.Selected(); sel != "" {
		head += muted.Render("  focused " + sel)
	}

	all := a.board.All()
	if len(all) == 0 {
		return head + "\n\n  " + muted.Render("No markers. Items without a location are not shown on the map.")
	}

	rows := make([][]string, 0, len(all))
	for i, m := range all {
		cur := " "
		if i == a.markerCursor {
			cur = "▸"
		}
		rows = append(rows, []string{
			cur,
			lipgloss.NewStyle().Foreground(lipgloss.Color(m.Style.FillColor)).Render("●"),
			cli.Truncate(m.Title, max(12, w/4)),
			cli.FormatCoordinate(&m.Position),
			fmt.Sprintf("%.2f", m.Style.Scale),
			cli.Truncate(m.Description, max(12, w/3)),
		})
	}
	table := cli.RenderTable(cli.Table{
		Headers:    []string{"", "", "Title", "Position", "Scale", "Details"},
		Rows:       rows,
		RightAlign: []bool{false, false, false, false, true},
	})
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	// three header lines precede the first marker row
	return head + "\n\n" + strings.Join(scrollWindow(lines, a.markerCursor+3, h-2), "\n")
}

func (a App) renderAdd(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	b.WriteString("\n")
	if a.add.form != nil {
		b.WriteString("  " + accent.Render("Location ") + a.add.selectedLabel() + "\n")
		if a.add.saving {
			b.WriteString("  " + a.spinner.View() + muted.Render(" Saving…") + "\n")
		}
		b.WriteString("\n")
		b.WriteString(a.add.form.View())
		return b.String()
	}

	b.WriteString("  " + a.add.input.View())
	if a.add.searching {
		b.WriteString("  " + a.spinner.View())
	}
	b.WriteString("\n\n")

	results := a.add.sess.Results()
	if a.add.remoteErr != "" {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(t.Orange).Render(a.add.remoteErr) + "\n")
	}
	if a.add.synthetic {
		b.WriteString("  " + muted.Render("No matches found. The place below is an approximate location.") + "\n")
	}
	sel := lipgloss.NewStyle().Background(t.SurfaceHover).Foreground(t.TextPrimary).Bold(true)
	for i, c := range results {
		line := cli.Truncate(c.Name, max(12, w/3))
		if c.Label != "" && c.Label != c.Name {
			line += muted.Render("  " + cli.Truncate(c.Label, max(12, w/3)))
		}
		line += lipgloss.NewStyle().Foreground(t.TextDim).Render("  " + c.Source.String())
		if i == a.add.cursor {
			b.WriteString("  ▸ " + sel.Render(line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}
	return b.String()
}

func (a App) renderLog(h int) string {
	t := theme.Active
	all := a.recorder.All()
	if len(all) == 0 {
		return "\n  " + lipgloss.NewStyle().Foreground(t.TextMuted).Render("No notifications yet.")
	}
	var lines []string
	for i := len(all) - 1; i >= 0 && len(lines) < h-1; i-- {
		n := all[i]
		lines = append(lines, fmt.Sprintf("  %s  %s %s",
			lipgloss.NewStyle().Foreground(t.TextDim).Render(n.At.Format("15:04:05")),
			lipgloss.NewStyle().Foreground(theme.SeverityColor(n.Severity)).Bold(true).Render(n.Title),
			n.Message))
	}
	return "\n" + strings.Join(lines, "\n")
}

func tripTitle(t model.Trip) string {
	if strings.TrimSpace(t.Name) == "" {
		return "Trip Map"
	}
	return t.Name
}

// scrollWindow returns at most h lines of lines keeping index cur visible.
func scrollWindow(lines []string, cur, h int) []string {
	if h <= 0 || len(lines) <= h {
		return lines
	}
	start := 0
	if cur >= h {
		start = cur - h + 1
	}
	end := min(start+h, len(lines))
	return lines[start:end]
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
