package components

import (
	"fmt"

	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports about the loaded dataset.
type StatusInfo struct {
	File      string
	Matched   int
	Total     int
	LoadTime  string
	FromCache bool
	Notice    string // transient message, e.g. a rejected filter
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [r]eset filters  [q]uit"
	if info.Notice != "" {
		left += "  " + lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).Render(info.Notice)
	}

	source := "parsed"
	if info.FromCache {
		source = "cached"
	}
	right := fmt.Sprintf("%s  %d/%d customers  %s %s ",
		info.File, info.Matched, info.Total, source, info.LoadTime)

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		right = fmt.Sprintf("%d/%d ", info.Matched, info.Total)
		padding = width - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if padding < 0 {
		padding = 0
	}

	spacer := lipgloss.NewStyle().Background(t.Surface).Render(fmt.Sprintf("%*s", padding, ""))
	return style.Render(left + spacer + right)
}
