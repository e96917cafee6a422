package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		if got := ByName(name).Name; got != name {
			t.Errorf("ByName(%q) = %q", name, got)
		}
	}
	if got := ByName("no-such-theme").Name; got != FlexokiDark.Name {
		t.Errorf("unknown theme fell back to %q, want %q", got, FlexokiDark.Name)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("tokyo-night")
	if Active.Name != "tokyo-night" {
		t.Fatalf("Active = %q", Active.Name)
	}
	if Active.ChurnColor(true) != TokyoNight.Churned || Active.ChurnColor(false) != TokyoNight.Retained {
		t.Error("ChurnColor does not follow the active palette")
	}
}

func TestRateColor(t *testing.T) {
	th := FlexokiDark
	tests := []struct {
		rate float64
		want lipgloss.Color
	}{
		{0, th.Retained},
		{0.079, th.Retained},
		{0.08, th.Caution},
		{0.15, th.Warning},
		{0.30, th.Churned},
		{1, th.Churned},
	}
	for _, tt := range tests {
		if got := th.RateColor(tt.rate); got != tt.want {
			t.Errorf("RateColor(%v) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}
