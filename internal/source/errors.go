package source

import "fmt"

// DataUnreadableError reports a dataset file that is missing, cannot be
// parsed as a table, lacks a required column, or holds a value that does
// not fit its column. It is fatal to the load.
type DataUnreadableError struct {
	Path   string
	Column string
	Row    int // 1-based data row, 0 when the problem is not row specific
	Reason string
	Err    error
}

func (e *DataUnreadableError) Error() string {
	msg := "data unreadable: " + e.Path
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataUnreadableError) Unwrap() error { return e.Err }
