package cli

import (
	"strings"
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{14606, "14,606"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{512, "512"},
		{5400, "5.4K"},
		{1_260_000, "1.3M"},
		{-3000, "-3.0K"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMargin(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{25.44, "25.44"},
		{-3.2, "-3.20"},
		{150.27, "150.3"},
		{2500.6, "2,501"},
	}
	for _, tt := range tests {
		if got := FormatMargin(tt.in); got != tt.want {
			t.Errorf("FormatMargin(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercentAndDelta(t *testing.T) {
	if got := FormatPercent(2.0 / 3.0); got != "66.7%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatDelta(0.15, 0.10); got != "+5.0pp" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(0.08, 0.10); got != "-2.0pp" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "-" {
		t.Errorf("zero date = %q", got)
	}
	if got := FormatDate(time.Date(2015, 3, 9, 0, 0, 0, 0, time.UTC)); got != "2015-03-09" {
		t.Errorf("date = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Channels",
		Headers: []string{"Channel", "Churn"},
		Rows:    [][]string{{"web", "12.0%"}, {"agent", "8.5%"}},
	})
	for _, want := range []string{"Channels", "Channel", "web", "agent", "12.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}

func TestRenderEmpty(t *testing.T) {
	if !strings.Contains(RenderEmpty(), EmptyMessage) {
		t.Error("RenderEmpty does not contain the empty message")
	}
}

func TestRenderSparkline(t *testing.T) {
	got := []rune(RenderSparkline([]float64{0, 0.5, 1}))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Errorf("sparkline = %q", string(got))
	}
	if RenderSparkline(nil) != "" {
		t.Error("nil series should render empty")
	}
}
