package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RateSparkline draws one block per churn rate, scaled to the highest
// rate and colored by each rate's grade.
func RateSparkline(rates []float64) string {
	if len(rates) == 0 {
		return ""
	}
	t := theme.Active
	blocks := []rune("▁▂▃▄▅▆▇█")

	peak := 0.0
	for _, r := range rates {
		peak = max(peak, r)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, r := range rates {
		idx := int(r / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		b.WriteString(lipgloss.NewStyle().Foreground(t.RateColor(r)).Background(t.Surface).Render(string(blocks[idx])))
	}
	return b.String()
}

// ChurnRateChart draws one vertical bar per churn rate in [0, 1] over a
// percent axis. Bars take the grade color of their rate; labels sit under
// their bar, cut to the bar width. Without room for bars it falls back to
// RateSparkline.
func ChurnRateChart(rates []float64, labels []string, width, height int) string {
	n := len(rates)
	if n == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, r := range rates {
		peak = max(peak, r)
	}
	peakPct := math.Max(peak*100, 1)

	step := chartTickStep(peakPct)
	ticks := max(int(math.Ceil(peakPct/step)), 1)
	for ticks > max(height/2, 1) {
		step *= 2
		ticks = max(int(math.Ceil(peakPct/step)), 1)
	}
	ceiling := step * float64(ticks) / 100
	rowsPerTick := max(height/ticks, 1)
	chartH := rowsPerTick * ticks

	yLabelW := len(percentLabel(step*float64(ticks))) + 1
	barW := 0
	if chartW := width - yLabelW - 1; chartW >= 2*n-1 {
		barW = min((chartW-(n-1))/n, 6)
	}
	if height < 3 || barW < 1 {
		return RateSparkline(rates)
	}

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	eighths := []rune(" ▁▂▃▄▅▆▇█")

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		label := ""
		if row%rowsPerTick == 0 {
			label = percentLabel(step * float64(row/rowsPerTick))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, r := range rates {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			cell := " "
			switch {
			case r >= top:
				cell = "█"
			case r > bottom:
				idx := int((r - bottom) / (top - bottom) * 8)
				cell = string(eighths[min(max(idx, 1), 8)])
			}
			bar := lipgloss.NewStyle().Foreground(t.RateColor(r)).Background(t.Surface)
			b.WriteString(bar.Render(strings.Repeat(cell, barW)))
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + n - 1
	b.WriteString(axis.Render(fmt.Sprintf("%*s└", yLabelW, "0%") + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		var lb strings.Builder
		for i, l := range labels {
			if i > 0 {
				lb.WriteByte(' ')
			}
			l = truncate(l, barW)
			lb.WriteString(l + strings.Repeat(" ", barW-lipgloss.Width(l)))
		}
		b.WriteString("\n")
		b.WriteString(axis.Render(strings.Repeat(" ", yLabelW+1) + strings.TrimRight(lb.String(), " ")))
	}
	return b.String()
}

func percentLabel(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// chartTickStep picks a 1, 2 or 5 step giving about five ticks up to maxVal.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e9:
		if v == math.Trunc(v/1e9)*1e9 {
			return fmt.Sprintf("%.0fB", v/1e9)
		}
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// StackedRow is one horizontal stacked bar: Lower is drawn first, Upper
// is stacked after it.
type StackedRow struct {
	Label string
	Lower int
	Upper int
}

// StackedBars renders one horizontal bar per row, scaled so the largest
// total spans the available width. Each row ends with its counts.
func StackedBars(rows []StackedRow, lowerColor, upperColor lipgloss.Color, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	maxTotal := 0
	countW := 0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		maxTotal = max(maxTotal, r.Lower+r.Upper)
		countW = max(countW, len(fmt.Sprintf("%d / %d", r.Lower, r.Upper)))
	}
	if maxTotal == 0 {
		maxTotal = 1
	}

	barW := width - labelW - countW - 3
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	lowerStyle := lipgloss.NewStyle().Foreground(lowerColor).Background(t.Surface)
	upperStyle := lipgloss.NewStyle().Foreground(upperColor).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pad := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, r := range rows {
		lowerLen := r.Lower * barW / maxTotal
		upperLen := r.Upper * barW / maxTotal
		// A non-zero segment stays visible.
		if r.Lower > 0 && lowerLen == 0 {
			lowerLen = 1
		}
		if r.Upper > 0 && upperLen == 0 {
			upperLen = 1
		}
		rest := barW - lowerLen - upperLen
		if rest < 0 {
			rest = 0
		}

		b.WriteString(labelStyle.Render(fmt.Sprintf("%*s", labelW, r.Label)))
		b.WriteString(pad.Render(" "))
		b.WriteString(lowerStyle.Render(strings.Repeat("█", lowerLen)))
		b.WriteString(upperStyle.Render(strings.Repeat("█", upperLen)))
		b.WriteString(pad.Render(strings.Repeat(" ", rest+1)))
		b.WriteString(countStyle.Render(fmt.Sprintf("%d / %d", r.Lower, r.Upper)))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ScatterPoint is one point on a character scatter plot. Size is in
// [0, 1] and selects the glyph; Series indexes the color list.
type ScatterPoint struct {
	X, Y   float64
	Size   float64
	Series int
}

var scatterGlyphs = []rune{'·', '•', '●'}

// Scatter renders points on a width x height character grid with min/max
// labels on both axes. Later points overwrite earlier ones in a shared cell.
func Scatter(points []ScatterPoint, colors []lipgloss.Color, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	t := theme.Active

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	yLabelW := max(len(formatChartLabel(math.Abs(maxY))), len(formatChartLabel(math.Abs(minY)))) + 2
	plotW := width - yLabelW - 1
	if plotW < 10 {
		plotW = 10
	}
	if height < 3 {
		height = 3
	}

	type cell struct {
		glyph  rune
		series int
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, plotW)
	}

	for _, p := range points {
		col := int((p.X - minX) / (maxX - minX) * float64(plotW-1))
		row := height - 1 - int((p.Y-minY)/(maxY-minY)*float64(height-1))
		g := int(p.Size * float64(len(scatterGlyphs)-1))
		if g < 0 {
			g = 0
		}
		if g >= len(scatterGlyphs) {
			g = len(scatterGlyphs) - 1
		}
		grid[row][col] = cell{glyph: scatterGlyphs[g], series: p.Series}
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pad := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := range grid {
		label := ""
		switch row {
		case 0:
			label = signedChartLabel(maxY)
		case height - 1:
			label = signedChartLabel(minY)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for _, c := range grid[row] {
			if c.glyph == 0 {
				b.WriteString(pad.Render(" "))
				continue
			}
			color := t.TextPrimary
			if c.series >= 0 && c.series < len(colors) {
				color = colors[c.series]
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(string(c.glyph)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW) + "└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")
	lo, hi := signedChartLabel(minX), signedChartLabel(maxX)
	gap := plotW - len(lo) - len(hi)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW+1) + lo + strings.Repeat(" ", gap) + hi))
	return b.String()
}

func signedChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	return formatChartLabel(v)
}
