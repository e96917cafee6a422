package model

import (
	"fmt"
	"strings"
)

// Summary holds the headline metrics for a filtered dataset.
type Summary struct {
	Count     int
	ChurnRate float64 // 0 when Count is 0
	AvgMargin float64 // 0 when Count is 0
}

// IsEmpty reports whether the summary was computed over zero rows, in
// which case ChurnRate and AvgMargin carry no meaning.
func (s Summary) IsEmpty() bool { return s.Count == 0 }

// ChannelChurn is the mean churn rate for one acquisition channel.
type ChannelChurn struct {
	Channel   string
	Rate      float64
	Customers int
}

// CohortCount is the number of customers in one (activation year, status) group.
type CohortCount struct {
	Year      int
	Label     ChurnLabel
	Customers int
}

// CohortRow is one zero-filled activation year ready for a stacked chart.
type CohortRow struct {
	Year    int
	Active  int
	Churned int
}

// Total returns Active + Churned.
func (r CohortRow) Total() int { return r.Active + r.Churned }

// ProfitPoint is one customer on the consumption vs. margin scatter.
type ProfitPoint struct {
	Cons12m float64
	Margin  float64
	PowMax  float64
	Label   ChurnLabel
}

// Criteria selects the subset of customers to analyze.
// All three conditions are combined with AND.
type Criteria struct {
	Gas         []GasFlag
	MinProducts int
	MaxProducts int
	Channels    []string
}

// String renders the criteria compactly for headers and filter pills.
func (c Criteria) String() string {
	gas := make([]string, len(c.Gas))
	for i, g := range c.Gas {
		gas[i] = string(g)
	}
	return fmt.Sprintf("gas=%s products=%d..%d channels=%d",
		strings.Join(gas, ","), c.MinProducts, c.MaxProducts, len(c.Channels))
}
