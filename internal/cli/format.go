// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EmptyMessage is shown by every view when the filters match no customers.
const EmptyMessage = "No customers match the current filter selection."

// FormatCompact formats a quantity with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M"
func FormatCompact(v float64) string {
	abs := math.Abs(v)

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}

// FormatKWh formats a 12-month electricity consumption.
func FormatKWh(v float64) string {
	return FormatCompact(v) + " kWh"
}

// FormatMargin formats a net margin value, keeping more precision for
// small amounts.
func FormatMargin(m float64) string {
	if m < 0 {
		return "-" + FormatMargin(-m)
	}
	if m >= 1000 {
		return FormatNumber(int64(math.Round(m)))
	}
	if m >= 100 {
		return fmt.Sprintf("%.1f", m)
	}
	return fmt.Sprintf("%.2f", m)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the difference between two rates in percentage
// points, with an explicit sign.
func FormatDelta(current, baseline float64) string {
	delta := (current - baseline) * 100
	if delta >= 0 {
		return fmt.Sprintf("+%.1fpp", delta)
	}
	return fmt.Sprintf("%.1fpp", delta)
}

// FormatDate renders a date as YYYY-MM-DD, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FormatPower formats a maximum subscribed power in kW.
func FormatPower(kw float64) string {
	return fmt.Sprintf("%.1f kW", kw)
}
