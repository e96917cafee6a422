// Package pipeline orchestrates dataset loading, filtering, and metric aggregation.
package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/churnboard/internal/model"
)

// Summarize computes the headline metrics for ds. Means are reported as 0
// for an empty dataset; check Summary.IsEmpty before displaying them.
func Summarize(ds model.Dataset) model.Summary {
	var s model.Summary
	var churned, margin float64

	ds.Each(func(_ int, r model.CustomerRecord) {
		s.Count++
		churned += r.ChurnValue()
		margin += r.MarginNetPowEle
	})

	if s.Count > 0 {
		n := float64(s.Count)
		s.ChurnRate = churned / n
		s.AvgMargin = margin / n
	}
	return s
}

// AggregateChannels computes the mean churn rate per acquisition channel,
// sorted by rate descending. Only channels present in ds appear.
func AggregateChannels(ds model.Dataset) []model.ChannelChurn {
	type acc struct {
		churned float64
		n       int
	}
	chanMap := make(map[string]*acc)

	ds.Each(func(_ int, r model.CustomerRecord) {
		a, ok := chanMap[r.OriginUp]
		if !ok {
			a = &acc{}
			chanMap[r.OriginUp] = a
		}
		a.churned += r.ChurnValue()
		a.n++
	})

	channels := make([]model.ChannelChurn, 0, len(chanMap))
	for name, a := range chanMap {
		channels = append(channels, model.ChannelChurn{
			Channel:   name,
			Rate:      a.churned / float64(a.n),
			Customers: a.n,
		})
	}
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].Rate != channels[j].Rate {
			return channels[i].Rate > channels[j].Rate
		}
		return channels[i].Channel < channels[j].Channel
	})

	return channels
}

// labelOrder puts Churned before Active within a year.
func labelOrder(l model.ChurnLabel) int {
	if l == model.LabelChurned {
		return 0
	}
	return 1
}

// AggregateCohorts counts customers per (activation year, churn label).
// Combinations with no customers are omitted; see FillCohorts.
func AggregateCohorts(ds model.Dataset) []model.CohortCount {
	type key struct {
		year  int
		label model.ChurnLabel
	}
	counts := make(map[key]int)

	ds.Each(func(_ int, r model.CustomerRecord) {
		counts[key{r.ActivationYear(), r.Label()}]++
	})

	cohorts := make([]model.CohortCount, 0, len(counts))
	for k, n := range counts {
		cohorts = append(cohorts, model.CohortCount{Year: k.year, Label: k.label, Customers: n})
	}
	sort.Slice(cohorts, func(i, j int) bool {
		if cohorts[i].Year != cohorts[j].Year {
			return cohorts[i].Year < cohorts[j].Year
		}
		return labelOrder(cohorts[i].Label) < labelOrder(cohorts[j].Label)
	})

	return cohorts
}

// FillCohorts turns sparse cohort counts into one row per year with both
// labels present, zero where a combination was absent. Stacked charts must
// go through this so that missing segments count as zero.
func FillCohorts(counts []model.CohortCount) []model.CohortRow {
	yearMap := make(map[int]*model.CohortRow)
	for _, c := range counts {
		row, ok := yearMap[c.Year]
		if !ok {
			row = &model.CohortRow{Year: c.Year}
			yearMap[c.Year] = row
		}
		switch c.Label {
		case model.LabelChurned:
			row.Churned += c.Customers
		default:
			row.Active += c.Customers
		}
	}

	rows := make([]model.CohortRow, 0, len(yearMap))
	for _, r := range yearMap {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Year < rows[j].Year
	})
	return rows
}

// ProfitPoints extracts the consumption vs. margin scatter points.
func ProfitPoints(ds model.Dataset) []model.ProfitPoint {
	points := make([]model.ProfitPoint, 0, ds.Len())
	ds.Each(func(_ int, r model.CustomerRecord) {
		points = append(points, model.ProfitPoint{
			Cons12m: r.Cons12m,
			Margin:  r.MarginNetPowEle,
			PowMax:  r.PowMax,
			Label:   r.Label(),
		})
	})
	return points
}

// Sortable data table columns.
const (
	SortMargin   = "margin"
	SortCons     = "cons"
	SortPowMax   = "pow_max"
	SortProducts = "products"
	SortChannel  = "channel"
	SortActiv    = "activation"
	SortRenewal  = "renewal"
)

// SortColumns lists the table sort keys in display order.
var SortColumns = []string{SortMargin, SortCons, SortPowMax, SortProducts, SortChannel, SortActiv, SortRenewal}

// SortRecords returns the records of ds ordered by column. Ties keep their
// original order. Unknown columns fall back to margin.
func SortRecords(ds model.Dataset, column string, desc bool) []model.CustomerRecord {
	recs := ds.Records()
	less := sortLess(column)
	sort.SliceStable(recs, func(i, j int) bool {
		if desc {
			return less(recs[j], recs[i])
		}
		return less(recs[i], recs[j])
	})
	return recs
}

func sortLess(column string) func(a, b model.CustomerRecord) bool {
	switch strings.ToLower(column) {
	case SortCons:
		return func(a, b model.CustomerRecord) bool { return a.Cons12m < b.Cons12m }
	case SortPowMax:
		return func(a, b model.CustomerRecord) bool { return a.PowMax < b.PowMax }
	case SortProducts:
		return func(a, b model.CustomerRecord) bool { return a.NbProdAct < b.NbProdAct }
	case SortChannel:
		return func(a, b model.CustomerRecord) bool { return a.OriginUp < b.OriginUp }
	case SortActiv:
		return func(a, b model.CustomerRecord) bool { return a.DateActiv.Before(b.DateActiv) }
	case SortRenewal:
		return func(a, b model.CustomerRecord) bool { return a.DateRenewal.Before(b.DateRenewal) }
	default:
		return func(a, b model.CustomerRecord) bool { return a.MarginNetPowEle < b.MarginNetPowEle }
	}
}
