package model

import (
	"testing"
	"time"
)

func TestParseGasFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    GasFlag
		wantErr bool
	}{
		{"t", GasYes, false},
		{"f", GasNo, false},
		{"T", "", true},
		{"yes", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseGasFlag(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGasFlag(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGasFlag(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseChurn(t *testing.T) {
	for raw, want := range map[string]bool{"1": true, "0": false} {
		got, err := ParseChurn(raw)
		if err != nil || got != want {
			t.Errorf("ParseChurn(%q) = %v, %v", raw, got, err)
		}
	}
	for _, raw := range []string{"2", "true", "", "-1"} {
		if _, err := ParseChurn(raw); err == nil {
			t.Errorf("ParseChurn(%q) should fail", raw)
		}
	}
}

func TestLabelMatchesChurn(t *testing.T) {
	r := CustomerRecord{Churn: true}
	if r.Label() != LabelChurned || r.ChurnValue() != 1 {
		t.Errorf("churned record: label %q value %v", r.Label(), r.ChurnValue())
	}
	r.Churn = false
	if r.Label() != LabelActive || r.ChurnValue() != 0 {
		t.Errorf("active record: label %q value %v", r.Label(), r.ChurnValue())
	}
}

func TestDataset(t *testing.T) {
	recs := []CustomerRecord{
		{ID: "a", HasGas: GasYes, NbProdAct: 4, OriginUp: "web", DateActiv: time.Date(2014, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", HasGas: GasYes, NbProdAct: 1, OriginUp: "agent"},
		{ID: "c", HasGas: GasNo, NbProdAct: 2, OriginUp: "web"},
	}
	ds := NewDataset(recs)
	recs[0].ID = "mutated"

	if ds.At(0).ID != "a" {
		t.Error("NewDataset must copy its input")
	}
	if got := ds.Channels(); len(got) != 2 || got[0] != "agent" || got[1] != "web" {
		t.Errorf("Channels = %v", got)
	}
	if got := ds.GasOptions(); len(got) != 2 || got[0] != GasNo || got[1] != GasYes {
		t.Errorf("GasOptions = %v", got)
	}
	if lo, hi := ds.ProductBounds(); lo != 1 || hi != 4 {
		t.Errorf("ProductBounds = %d, %d", lo, hi)
	}
	if ds.At(0).ActivationYear() != 2014 {
		t.Errorf("ActivationYear = %d", ds.At(0).ActivationYear())
	}

	out := ds.Records()
	out[0].ID = "changed"
	if ds.At(0).ID != "a" {
		t.Error("Records must return a copy")
	}

	sub := ds.Derive(nil)
	if !sub.IsEmpty() || !sub.KnowsChannel("agent") {
		t.Error("derived dataset should be empty and keep the channel domain")
	}
	if sub.KnowsChannel("phone") {
		t.Error("unknown channel reported as known")
	}
	if lo, hi := sub.ProductBounds(); lo != 0 || hi != 0 {
		t.Errorf("empty ProductBounds = %d, %d", lo, hi)
	}
}

func TestCriteriaString(t *testing.T) {
	c := Criteria{Gas: []GasFlag{GasYes}, MinProducts: 1, MaxProducts: 3, Channels: []string{"a", "b"}}
	want := "gas=Yes products=1..3 channels=2"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
