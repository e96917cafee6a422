package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/tui/components"
)

func (a App) renderOverviewTab(cw int) string {
	if a.filtered.IsEmpty() {
		return a.renderEmpty(cw)
	}

	s := a.summary
	base := a.baseline
	var b strings.Builder

	// Row 1: metric cards, deltas against the whole dataset
	marginDelta := s.AvgMargin - base.AvgMargin
	metrics := []components.Metric{
		{
			Label: "Customers",
			Value: cli.FormatNumber(int64(s.Count)),
			Delta: "of " + cli.FormatNumber(int64(base.Count)) + " total",
		},
		{
			Label: "Churn rate",
			Value: cli.FormatPercent(s.ChurnRate),
			Delta: cli.FormatDelta(s.ChurnRate, base.ChurnRate) + " vs all",
		},
		{
			Label: "Avg net margin",
			Value: cli.FormatMargin(s.AvgMargin),
			Delta: fmt.Sprintf("%+.1f vs all", marginDelta),
		},
		{
			Label: "Channels",
			Value: fmt.Sprintf("%d", len(a.channels)),
			Delta: fmt.Sprintf("of %d", len(a.full.Channels())),
		},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: churn by channel chart + per-channel rates
	rates := make([]float64, len(a.channels))
	labels := make([]string, len(a.channels))
	for i, ch := range a.channels {
		rates[i] = ch.Rate
		labels[i] = ch.Channel
	}

	var rateLines []string
	labelW := 14
	for _, ch := range a.channels {
		rateLines = append(rateLines, components.RateBar(ch.Channel, ch.Rate, labelW, 16)+
			fmt.Sprintf("  %s", cli.FormatNumber(int64(ch.Customers))))
	}

	if a.isCompactLayout() {
		inner := components.CardInnerWidth(cw)
		b.WriteString(components.ContentCard("Churn rate by channel",
			components.ChurnRateChart(rates, labels, inner, 8), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Channels", strings.Join(rateLines, "\n"), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		chart := components.ContentCard("Churn rate by channel",
			components.ChurnRateChart(rates, labels, components.CardInnerWidth(halves[0]), 10), halves[0])
		list := components.ContentCard("Channels", strings.Join(rateLines, "\n"), halves[1])
		b.WriteString(components.CardRow([]string{chart, list}))
	}
	b.WriteString("\n")

	// Row 3: how much of the dataset the filters keep
	inner := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard("Selection",
		components.ShareBar(a.filtered.Len(), a.full.Len(), inner-24), cw))

	return b.String()
}
