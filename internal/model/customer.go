// Package model defines domain types for churnboard customers and metrics.
package model

import (
	"fmt"
	"time"
)

// GasFlag is the recoded has_gas column.
type GasFlag string

// Gas subscription labels.
const (
	GasYes GasFlag = "Yes"
	GasNo  GasFlag = "No"
)

// ChurnLabel is the human-readable churn status derived from the churn flag.
type ChurnLabel string

// Churn status labels.
const (
	LabelActive  ChurnLabel = "Active"
	LabelChurned ChurnLabel = "Churned"
)

// ParseGasFlag maps a raw has_gas value ("t"/"f") to its label.
// Any other value is rejected.
func ParseGasFlag(raw string) (GasFlag, error) {
	switch raw {
	case "t":
		return GasYes, nil
	case "f":
		return GasNo, nil
	}
	return "", fmt.Errorf("unrecognized has_gas value %q (want t or f)", raw)
}

// ParseChurn maps a raw churn value ("0"/"1") to a boolean.
func ParseChurn(raw string) (bool, error) {
	switch raw {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized churn value %q (want 0 or 1)", raw)
}

// ValidGasFlag reports whether g is one of the two recoded labels.
func ValidGasFlag(g GasFlag) bool {
	return g == GasYes || g == GasNo
}

// ChurnLabelFor returns the label matching a churn flag.
func ChurnLabelFor(churned bool) ChurnLabel {
	if churned {
		return LabelChurned
	}
	return LabelActive
}

// CustomerRecord is one row of the cleaned churn dataset.
type CustomerRecord struct {
	ID              string
	HasGas          GasFlag
	Churn           bool
	NbProdAct       int
	OriginUp        string
	Cons12m         float64
	MarginNetPowEle float64
	PowMax          float64

	DateActiv     time.Time
	DateEnd       time.Time
	DateModifProd time.Time
	DateRenewal   time.Time
}

// Label returns the churn label for the record. It is derived on every
// call so it can never disagree with Churn.
func (r CustomerRecord) Label() ChurnLabel {
	return ChurnLabelFor(r.Churn)
}

// ChurnValue returns the churn flag as 0 or 1 for averaging.
func (r CustomerRecord) ChurnValue() float64 {
	if r.Churn {
		return 1
	}
	return 0
}

// ActivationYear returns the calendar year of DateActiv.
func (r CustomerRecord) ActivationYear() int {
	return r.DateActiv.Year()
}
