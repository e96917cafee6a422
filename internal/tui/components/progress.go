package components

import (
	"fmt"

	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForRate returns the theme's grade for a churn rate as a hex string,
// the form bubbles/progress takes.
func ColorForRate(rate float64) string {
	return string(theme.Active.RateColor(rate))
}

func clampPct(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

// RateBar renders a labeled bar for a 0-1 rate followed by its percentage.
// The bar color follows ColorForRate.
func RateBar(label string, rate float64, labelW, barWidth int) string {
	t := theme.Active
	rate = clampPct(rate)

	bar := progress.New(
		progress.WithSolidFill(ColorForRate(rate)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForRate(rate))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(rate) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", rate*100))
}

// ShareBar renders how much of the full dataset the current selection
// keeps, as a gradient bar and "kept / total".
func ShareBar(kept, total, barWidth int) string {
	t := theme.Active
	if total <= 0 {
		return ""
	}
	pct := clampPct(float64(kept) / float64(total))

	bar := progress.New(
		progress.WithGradient(string(t.Share), string(t.AccentBright)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	return bar.ViewAs(pct) +
		dimStyle.Render(" ") +
		countStyle.Render(fmt.Sprintf("%d", kept)) +
		dimStyle.Render(fmt.Sprintf(" / %d (%.0f%%)", total, pct*100))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
