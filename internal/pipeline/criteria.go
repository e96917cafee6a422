package pipeline

import (
	"strings"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/source"
)

// SplitList flattens repeated and comma-separated values, trimming
// whitespace and dropping empty items.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ParseGasLabels converts user-supplied gas labels into flags. "Yes"/"No"
// are matched case-insensitively and the raw "t"/"f" codes are accepted.
func ParseGasLabels(values []string) ([]model.GasFlag, error) {
	out := make([]model.GasFlag, 0, len(values))
	for _, v := range values {
		switch strings.ToLower(v) {
		case "yes", "t":
			out = append(out, model.GasYes)
		case "no", "f":
			out = append(out, model.GasNo)
		default:
			return nil, &InvalidCriteriaError{Field: "gas", Value: v, Reason: "want Yes or No"}
		}
	}
	return out, nil
}

// ParseProductBound converts a product-count bound given as text.
func ParseProductBound(field, raw string) (int, error) {
	n, err := source.ParseCount(raw)
	if err != nil {
		return 0, &InvalidCriteriaError{Field: field, Value: raw, Reason: "not an integer"}
	}
	return n, nil
}
