package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/churnboard/internal/tui/components"
	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCohortsTab(cw int) string {
	if a.filtered.IsEmpty() {
		return a.renderEmpty(cw)
	}
	t := theme.Active

	rows := make([]components.StackedRow, len(a.cohorts))
	rates := make([]float64, len(a.cohorts))
	var churned, total int
	for i, c := range a.cohorts {
		rows[i] = components.StackedRow{
			Label: fmt.Sprintf("%d", c.Year),
			Lower: c.Churned,
			Upper: c.Active,
		}
		if c.Total() > 0 {
			rates[i] = float64(c.Churned) / float64(c.Total())
		}
		churned += c.Churned
		total += c.Total()
	}

	legend := lipgloss.NewStyle().Foreground(t.ChurnColor(true)).Background(t.Surface).Render("█ Churned") +
		lipgloss.NewStyle().Background(t.Surface).Render("  ") +
		lipgloss.NewStyle().Foreground(t.ChurnColor(false)).Background(t.Surface).Render("█ Active") +
		lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("   %d years · %d churned of %d", len(a.cohorts), churned, total))

	inner := components.CardInnerWidth(cw)
	body := legend + "\n\n" + components.StackedBars(rows, t.ChurnColor(true), t.ChurnColor(false), inner)
	body += "\n\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Churn rate by year  ") +
		components.RateSparkline(rates)

	var b strings.Builder
	b.WriteString(components.ContentCard("Customers by activation year (churned / active)", body, cw))
	return b.String()
}
