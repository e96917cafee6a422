// Package theme holds the color palettes of the churnboard dashboard.
//
// Colors are named by role. Chrome roles style cards, tabs and text; signal
// roles carry meaning in the charts: Churned and Retained split every chart
// by churn label, and Retained, Caution, Warning and Churned grade churn rates
// from low to high.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps each color role to a concrete color.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	Selected     lipgloss.Color // active tab, cursor row
	Border       lipgloss.Color
	Focus        lipgloss.Color // focused card border
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Error        lipgloss.Color // load failures

	Churned  lipgloss.Color
	Retained lipgloss.Color
	Caution  lipgloss.Color
	Warning  lipgloss.Color // notices, empty selection
	Share    lipgloss.Color // start of the selection share gradient
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default palette, warm ink on paper-dark surfaces.
var FlexokiDark = Theme{
	Name: "flexoki-dark",

	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	Selected:     lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	Focus:        lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Error:        lipgloss.Color("#D14D41"),

	Churned:  lipgloss.Color("#D14D41"),
	Retained: lipgloss.Color("#879A39"),
	Caution:  lipgloss.Color("#D0A215"),
	Warning:  lipgloss.Color("#DA702C"),
	Share:    lipgloss.Color("#24837B"),
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name: "catppuccin-mocha",

	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	Selected:     lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	Focus:        lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Error:        lipgloss.Color("#F38BA8"),

	Churned:  lipgloss.Color("#F38BA8"),
	Retained: lipgloss.Color("#A6E3A1"),
	Caution:  lipgloss.Color("#F9E2AF"),
	Warning:  lipgloss.Color("#FAB387"),
	Share:    lipgloss.Color("#94E2D5"),
}

// TokyoNight is a cool blue palette.
var TokyoNight = Theme{
	Name: "tokyo-night",

	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	Selected:     lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	Focus:        lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Error:        lipgloss.Color("#F7768E"),

	Churned:  lipgloss.Color("#F7768E"),
	Retained: lipgloss.Color("#9ECE6A"),
	Caution:  lipgloss.Color("#E0AF68"),
	Warning:  lipgloss.Color("#FF9E64"),
	Share:    lipgloss.Color("#7DCFFF"),
}

// Terminal sticks to the 16 ANSI colors for terminals without truecolor.
var Terminal = Theme{
	Name: "terminal",

	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	Selected:     lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	Focus:        lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Error:        lipgloss.Color("1"),

	Churned:  lipgloss.Color("1"),
	Retained: lipgloss.Color("2"),
	Caution:  lipgloss.Color("3"),
	Warning:  lipgloss.Color("3"),
	Share:    lipgloss.Color("6"),
}

// All lists the themes in the order the setup forms offer them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns the named theme, or FlexokiDark when the name is unknown.
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

// Names returns the names of all available themes in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ChurnColor returns the color of the churned (true) or active (false)
// series.
func (t Theme) ChurnColor(churned bool) lipgloss.Color {
	if churned {
		return t.Churned
	}
	return t.Retained
}

// RateColor grades a churn rate in [0, 1]: from 30% Churned, from 15%
// Warning, from 8% Caution, otherwise Retained.
func (t Theme) RateColor(rate float64) lipgloss.Color {
	switch {
	case rate >= 0.30:
		return t.Churned
	case rate >= 0.15:
		return t.Warning
	case rate >= 0.08:
		return t.Caution
	default:
		return t.Retained
	}
}
