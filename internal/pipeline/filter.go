package pipeline

import (
	"strconv"

	"github.com/theirongolddev/churnboard/internal/model"
)

// DefaultCriteria returns criteria that keep every row of ds: all gas
// options, the full product range and every channel.
func DefaultCriteria(ds model.Dataset) model.Criteria {
	lo, hi := ds.ProductBounds()
	return model.Criteria{
		Gas:         ds.GasOptions(),
		MinProducts: lo,
		MaxProducts: hi,
		Channels:    ds.Channels(),
	}
}

// ValidateCriteria checks c against the categories present in ds.
func ValidateCriteria(ds model.Dataset, c model.Criteria) error {
	if c.MinProducts > c.MaxProducts {
		return &InvalidCriteriaError{
			Field:  "products",
			Value:  strconv.Itoa(c.MinProducts) + ".." + strconv.Itoa(c.MaxProducts),
			Reason: "min is greater than max",
		}
	}
	for _, g := range c.Gas {
		if !model.ValidGasFlag(g) {
			return &InvalidCriteriaError{Field: "gas", Value: string(g), Reason: "want Yes or No"}
		}
	}
	for _, ch := range c.Channels {
		if !ds.KnowsChannel(ch) {
			return &InvalidCriteriaError{Field: "channel", Value: ch, Reason: "not present in dataset"}
		}
	}
	return nil
}

// Filter returns the rows of ds that satisfy all three criteria: gas flag in
// c.Gas, active product count within [c.MinProducts, c.MaxProducts], and
// channel in c.Channels. Row order is preserved and ds is not modified.
// An empty gas or channel set yields an empty dataset, not an error.
func Filter(ds model.Dataset, c model.Criteria) (model.Dataset, error) {
	if err := ValidateCriteria(ds, c); err != nil {
		return model.Dataset{}, err
	}

	gas := make(map[model.GasFlag]struct{}, len(c.Gas))
	for _, g := range c.Gas {
		gas[g] = struct{}{}
	}
	channels := make(map[string]struct{}, len(c.Channels))
	for _, ch := range c.Channels {
		channels[ch] = struct{}{}
	}

	var result []model.CustomerRecord
	ds.Each(func(_ int, r model.CustomerRecord) {
		if _, ok := gas[r.HasGas]; !ok {
			return
		}
		if r.NbProdAct < c.MinProducts || r.NbProdAct > c.MaxProducts {
			return
		}
		if _, ok := channels[r.OriginUp]; !ok {
			return
		}
		result = append(result, r)
	})
	return ds.Derive(result), nil
}
