package tui

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/tui/components"
	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	seriesActive = iota
	seriesChurned
)

// scatterPoints maps profit points onto the character scatter. Glyph size
// follows pow_max relative to the largest in the selection.
func scatterPoints(points []model.ProfitPoint) []components.ScatterPoint {
	maxPow := 0.0
	for _, p := range points {
		if p.PowMax > maxPow {
			maxPow = p.PowMax
		}
	}

	out := make([]components.ScatterPoint, len(points))
	for i, p := range points {
		size := 0.0
		if maxPow > 0 {
			size = p.PowMax / maxPow
		}
		series := seriesActive
		if p.Label == model.LabelChurned {
			series = seriesChurned
		}
		out[i] = components.ScatterPoint{X: p.Cons12m, Y: p.Margin, Size: size, Series: series}
	}
	// Churned customers are drawn last so they stay visible.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Series < out[j].Series })
	return out
}

func (a App) renderProfitTab(cw, h int) string {
	if a.filtered.IsEmpty() {
		return a.renderEmpty(cw)
	}
	t := theme.Active

	legend := lipgloss.NewStyle().Foreground(t.ChurnColor(false)).Background(t.Surface).Render("● Active") +
		lipgloss.NewStyle().Background(t.Surface).Render("  ") +
		lipgloss.NewStyle().Foreground(t.ChurnColor(true)).Background(t.Surface).Render("● Churned") +
		lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("   x: cons_12m (kWh)  y: net power margin  size: pow_max  · %d customers", len(a.points)))

	plotH := h - 8 // card border, title, legend, x axis
	if plotH < 6 {
		plotH = 6
	}
	colors := []lipgloss.Color{t.ChurnColor(false), t.ChurnColor(true)}
	plot := components.Scatter(scatterPoints(a.points), colors, components.CardInnerWidth(cw), plotH)

	return components.ContentCard("Consumption vs. margin", legend+"\n\n"+plot, cw)
}
