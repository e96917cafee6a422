package pipeline

import "fmt"

// InvalidCriteriaError reports filter criteria that cannot be applied:
// an inverted product range or a category value the dataset does not know.
type InvalidCriteriaError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidCriteriaError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid criteria: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid criteria: %s %q: %s", e.Field, e.Value, e.Reason)
}
