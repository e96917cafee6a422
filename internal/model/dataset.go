package model

import "sort"

// Dataset is an ordered, read-only collection of customer records.
// A Dataset is never mutated after construction, so it can be shared
// freely between goroutines.
type Dataset struct {
	records []CustomerRecord

	// domain is the channel vocabulary of the root dataset. Subsets keep
	// their parent's domain so criteria stay valid after filtering.
	domain map[string]struct{}
}

// NewDataset builds a root Dataset that owns a copy of records.
func NewDataset(records []CustomerRecord) Dataset {
	own := make([]CustomerRecord, len(records))
	copy(own, records)
	domain := make(map[string]struct{})
	for _, r := range own {
		domain[r.OriginUp] = struct{}{}
	}
	return Dataset{records: own, domain: domain}
}

// Derive builds a subset of d from records, keeping d's channel domain.
func (d Dataset) Derive(records []CustomerRecord) Dataset {
	own := make([]CustomerRecord, len(records))
	copy(own, records)
	return Dataset{records: own, domain: d.domain}
}

// KnowsChannel reports whether ch belongs to the channel domain of the
// dataset this one was loaded or derived from.
func (d Dataset) KnowsChannel(ch string) bool {
	_, ok := d.domain[ch]
	return ok
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// IsEmpty reports whether the dataset has no records. Callers use it to
// short-circuit aggregation and rendering when a filter matched nothing.
func (d Dataset) IsEmpty() bool { return len(d.records) == 0 }

// At returns the i-th record.
func (d Dataset) At(i int) CustomerRecord { return d.records[i] }

// Records returns a copy of the records in their original order.
func (d Dataset) Records() []CustomerRecord {
	out := make([]CustomerRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Each calls fn for every record in order.
func (d Dataset) Each(fn func(i int, r CustomerRecord)) {
	for i, r := range d.records {
		fn(i, r)
	}
}

// Channels returns the sorted distinct acquisition channels.
func (d Dataset) Channels() []string {
	seen := make(map[string]struct{})
	for _, r := range d.records {
		seen[r.OriginUp] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for ch := range seen {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// GasOptions returns the sorted distinct gas labels present.
func (d Dataset) GasOptions() []GasFlag {
	var hasYes, hasNo bool
	for _, r := range d.records {
		switch r.HasGas {
		case GasYes:
			hasYes = true
		case GasNo:
			hasNo = true
		}
	}
	var out []GasFlag
	if hasNo {
		out = append(out, GasNo)
	}
	if hasYes {
		out = append(out, GasYes)
	}
	return out
}

// ProductBounds returns the min and max active product counts.
// Both are zero for an empty dataset.
func (d Dataset) ProductBounds() (lo, hi int) {
	for i, r := range d.records {
		if i == 0 || r.NbProdAct < lo {
			lo = r.NbProdAct
		}
		if i == 0 || r.NbProdAct > hi {
			hi = r.NbProdAct
		}
	}
	return lo, hi
}
