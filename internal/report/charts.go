// Package report renders churn aggregates as PNG charts, XLSX workbooks
// and descriptive statistics.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
)

// ErrEmpty is returned when there is nothing to draw for the selection.
var ErrEmpty = errors.New("no customers match the current filter selection")

// Chart names, also used as file stems and HTTP path segments.
const (
	ChartChannels = "channels"
	ChartProfit   = "profitability"
	ChartCohorts  = "cohorts"
)

// ChartNames lists every chart in display order.
var ChartNames = []string{ChartChannels, ChartProfit, ChartCohorts}

var (
	colorChurned = color.RGBA{R: 209, G: 77, B: 65, A: 255}
	colorActive  = color.RGBA{R: 67, G: 133, B: 190, A: 255}
)

// Default PNG size.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

// LabelColor returns the color used for a churn label on every chart.
func LabelColor(l model.ChurnLabel) color.Color {
	if l == model.LabelChurned {
		return colorChurned
	}
	return colorActive
}

// ChannelChart draws churn rate per acquisition channel as a bar chart,
// highest rate first.
func ChannelChart(channels []model.ChannelChurn) (*plot.Plot, error) {
	if len(channels) == 0 {
		return nil, ErrEmpty
	}

	p := plot.New()
	p.Title.Text = "Churn rate by acquisition channel"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Channel"
	p.Y.Label.Text = "Churn rate (%)"

	values := make(plotter.Values, len(channels))
	labels := make([]string, len(channels))
	for i, c := range channels {
		values[i] = c.Rate * 100
		labels[i] = shortChannel(c.Channel)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("channel bars: %w", err)
	}
	bars.Color = colorChurned
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0

	for i, v := range values {
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: float64(i), Y: v}},
			Labels: []string{fmt.Sprintf("%.1f%%", v)},
		})
		if err != nil {
			return nil, fmt.Errorf("channel labels: %w", err)
		}
		p.Add(label)
	}

	return p, nil
}

// ProfitChart draws 12-month consumption against net margin, one glyph
// per customer, sized by maximum power and colored by churn label.
func ProfitChart(points []model.ProfitPoint) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, ErrEmpty
	}

	p := plot.New()
	p.Title.Text = "Consumption vs. net margin"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Electricity consumption, last 12 months"
	p.Y.Label.Text = "Net margin on power subscription"

	maxPow := 0.0
	for _, pt := range points {
		maxPow = math.Max(maxPow, pt.PowMax)
	}

	// One scatter per label so each gets a legend entry.
	for _, label := range []model.ChurnLabel{model.LabelActive, model.LabelChurned} {
		var xys plotter.XYs
		var pows []float64
		for _, pt := range points {
			if pt.Label != label {
				continue
			}
			xys = append(xys, plotter.XY{X: pt.Cons12m, Y: pt.Margin})
			pows = append(pows, pt.PowMax)
		}
		if len(xys) == 0 {
			continue
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("profit scatter: %w", err)
		}
		c := LabelColor(label)
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  c,
				Shape:  draw.CircleGlyph{},
				Radius: glyphRadius(pows[i], maxPow),
			}
		}
		p.Add(sc)
		p.Legend.Add(string(label), sc)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p, nil
}

// glyphRadius maps pow_max onto 1.5-7pt.
func glyphRadius(pow, maxPow float64) vg.Length {
	if maxPow <= 0 || pow <= 0 {
		return vg.Points(1.5)
	}
	return vg.Points(1.5 + 5.5*math.Sqrt(pow/maxPow))
}

// CohortChart draws customers per activation year as stacked bars, churned
// at the bottom and active on top. Missing label/year combinations are
// zero-filled first.
func CohortChart(counts []model.CohortCount) (*plot.Plot, error) {
	rows := pipeline.FillCohorts(counts)
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	p := plot.New()
	p.Title.Text = "Customers by activation year"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Activation year"
	p.Y.Label.Text = "Customers"

	churned := make(plotter.Values, len(rows))
	active := make(plotter.Values, len(rows))
	years := make([]string, len(rows))
	for i, r := range rows {
		churned[i] = float64(r.Churned)
		active[i] = float64(r.Active)
		years[i] = fmt.Sprint(r.Year)
	}

	w := vg.Points(18)
	churnBars, err := plotter.NewBarChart(churned, w)
	if err != nil {
		return nil, fmt.Errorf("cohort bars: %w", err)
	}
	churnBars.Color = colorChurned
	churnBars.LineStyle.Width = vg.Length(0)

	activeBars, err := plotter.NewBarChart(active, w)
	if err != nil {
		return nil, fmt.Errorf("cohort bars: %w", err)
	}
	activeBars.Color = colorActive
	activeBars.LineStyle.Width = vg.Length(0)
	activeBars.StackOn(churnBars)

	p.Add(churnBars, activeBars)
	p.Legend.Add(string(model.LabelChurned), churnBars)
	p.Legend.Add(string(model.LabelActive), activeBars)
	p.Legend.Top = true
	p.NominalX(years...)
	p.Y.Min = 0

	return p, nil
}

// Chart builds the named chart for ds.
func Chart(name string, ds model.Dataset) (*plot.Plot, error) {
	switch name {
	case ChartChannels:
		return ChannelChart(pipeline.AggregateChannels(ds))
	case ChartProfit:
		return ProfitChart(pipeline.ProfitPoints(ds))
	case ChartCohorts:
		return CohortChart(pipeline.AggregateCohorts(ds))
	}
	return nil, fmt.Errorf("unknown chart %q", name)
}

// WritePNG encodes p as a PNG of the default size.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveCharts writes every chart for ds into dir as <name>.png and returns
// the written paths.
func SaveCharts(dir string, ds model.Dataset) ([]string, error) {
	if ds.IsEmpty() {
		return nil, ErrEmpty
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	var paths []string
	for _, name := range ChartNames {
		p, err := Chart(name, ds)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, name+".png")
		if err := p.Save(chartWidth, chartHeight, path); err != nil {
			return paths, fmt.Errorf("saving %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// shortChannel trims the long hashed channel codes for axis labels.
func shortChannel(ch string) string {
	if len(ch) > 10 {
		return ch[:8] + ".."
	}
	return ch
}
