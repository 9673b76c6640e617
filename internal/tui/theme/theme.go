// Package theme defines color themes for the tripdeck dashboard.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripdeck/internal/category"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/notify"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Highlighted surface (active tab, selected row)
	Border       lipgloss.Color // Subtle borders
	BorderBright lipgloss.Color // Prominent borders (cards, focus)
	BorderAccent lipgloss.Color // Accent-colored borders for focus states
	TextDim      lipgloss.Color // Lowest contrast text (hints, disabled)
	TextMuted    lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary  lipgloss.Color // Primary content text
	Accent       lipgloss.Color // Primary accent (links, active states)
	AccentBright lipgloss.Color // Brighter accent for emphasis
	Green        lipgloss.Color
	Orange       lipgloss.Color
	Red          lipgloss.Color
	Blue         lipgloss.Color
	Yellow       lipgloss.Color
	Magenta      lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderBright: lipgloss.Color("#575653"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
	Blue:         lipgloss.Color("#4385BE"),
	Yellow:       lipgloss.Color("#D0A215"),
	Magenta:      lipgloss.Color("#CE5D97"),
}

// Atlas is a light theme in the colors of a printed road atlas.
var Atlas = Theme{
	Name:         "atlas",
	Background:   lipgloss.Color("#F4EFE1"),
	Surface:      lipgloss.Color("#EAE3CF"),
	SurfaceHover: lipgloss.Color("#DDD3B8"),
	Border:       lipgloss.Color("#C9BD9C"),
	BorderBright: lipgloss.Color("#A8996F"),
	BorderAccent: lipgloss.Color("#2F6F8F"),
	TextDim:      lipgloss.Color("#A8996F"),
	TextMuted:    lipgloss.Color("#6E6447"),
	TextPrimary:  lipgloss.Color("#2B2618"),
	Accent:       lipgloss.Color("#2F6F8F"),
	AccentBright: lipgloss.Color("#1D5673"),
	Green:        lipgloss.Color("#4E7A2E"),
	Orange:       lipgloss.Color("#C0601D"),
	Red:          lipgloss.Color("#B3362B"),
	Blue:         lipgloss.Color("#2F6F8F"),
	Yellow:       lipgloss.Color("#A77F00"),
	Magenta:      lipgloss.Color("#8E3F7D"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderBright: lipgloss.Color("7"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Green:        lipgloss.Color("2"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
	Blue:         lipgloss.Color("4"),
	Yellow:       lipgloss.Color("3"),
	Magenta:      lipgloss.Color("5"),
}

// All available themes.
var All = []Theme{FlexokiDark, Atlas, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the available theme names.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// CategoryColor is the marker fill color of a category. The Terminal theme
// maps categories onto its ANSI palette instead.
func CategoryColor(c model.Category) lipgloss.Color {
	if Active.Name == Terminal.Name {
		switch category.Parse(string(c)) {
		case model.CategoryAccommodation, model.CategoryTransportation:
			return Active.Blue
		case model.CategoryRestaurant:
			return Active.Orange
		case model.CategoryEventActivity:
			return Active.Magenta
		case model.CategorySightseeing:
			return Active.Green
		case model.CategoryShopping:
			return Active.Yellow
		default:
			return Active.TextMuted
		}
	}
	return lipgloss.Color(category.StyleFor(c).Color)
}

// SeverityColor colors a notification by severity.
func SeverityColor(s notify.Severity) lipgloss.Color {
	switch s {
	case notify.Success:
		return Active.Green
	case notify.Warning:
		return Active.Orange
	case notify.Error:
		return Active.Red
	default:
		return Active.Accent
	}
}
