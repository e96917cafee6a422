// Package source reads the cleaned customer churn dataset from disk.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/churnboard/internal/model"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cast"
)

// ReadDataset reads a delimited dataset file and returns one record per row,
// in file order. Date columns are parsed, has_gas is recoded to Yes/No and
// churn is validated as 0/1. Every failure is a *DataUnreadableError.
func ReadDataset(path string) ([]model.CustomerRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // dataset path is configured by the local user
	if err != nil {
		return nil, &DataUnreadableError{Path: path, Err: err}
	}

	delim := delimiterFor(path)
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delim),
	)
	if df.Err != nil {
		// gota refuses a table with no data rows; a bare header is an
		// empty dataset.
		if names, ok := headerOnly(data, delim); ok {
			if err := checkColumns(path, names); err != nil {
				return nil, err
			}
			return []model.CustomerRecord{}, nil
		}
		return nil, &DataUnreadableError{Path: path, Reason: "not a delimited table", Err: df.Err}
	}

	return parseFrame(path, df)
}

// headerOnly reports whether data is a single header row and returns its
// column names.
func headerOnly(data []byte, delim rune) ([]string, bool) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	rows, err := r.ReadAll()
	if err != nil || len(rows) != 1 {
		return nil, false
	}
	names := make([]string, len(rows[0]))
	for i, n := range rows[0] {
		names[i] = strings.TrimSpace(n)
	}
	return names, true
}

func checkColumns(path string, names []string) error {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}
	for _, name := range RequiredColumns {
		if !present[name] {
			return &DataUnreadableError{Path: path, Column: name, Reason: "required column missing"}
		}
	}
	return nil
}

// ParseCount reads a whole-number cell in base 10. Leading zeros are padding,
// so "010" is 10, and prefixed forms such as "0x3" are rejected.
func ParseCount(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// delimiterFor picks the field separator from the file extension.
func delimiterFor(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}

// frameColumns holds the raw string cells of every column we read.
type frameColumns struct {
	ids     []string
	cols    map[string][]string
	nullity map[string][]bool
}

func parseFrame(path string, df dataframe.DataFrame) ([]model.CustomerRecord, error) {
	if err := checkColumns(path, df.Names()); err != nil {
		return nil, err
	}

	fc := frameColumns{
		cols:    make(map[string][]string, len(RequiredColumns)),
		nullity: make(map[string][]bool, len(RequiredColumns)),
	}
	for _, name := range RequiredColumns {
		s := df.Col(name)
		fc.cols[name] = s.Records()
		fc.nullity[name] = s.IsNaN()
	}
	for _, name := range df.Names() {
		if name == ColID {
			fc.ids = df.Col(ColID).Records()
		}
	}

	n := df.Nrow()
	records := make([]model.CustomerRecord, n)
	for i := 0; i < n; i++ {
		rec, err := fc.record(path, i)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

func (fc frameColumns) cell(path, col string, i int) (string, error) {
	v := strings.TrimSpace(fc.cols[col][i])
	if fc.nullity[col][i] || v == "" {
		return "", &DataUnreadableError{Path: path, Column: col, Row: i + 1, Reason: "missing value"}
	}
	return v, nil
}

func (fc frameColumns) record(path string, i int) (model.CustomerRecord, error) {
	var rec model.CustomerRecord
	if fc.ids != nil {
		rec.ID = fc.ids[i]
	}

	fail := func(col string, err error) (model.CustomerRecord, error) {
		var due *DataUnreadableError
		if errors.As(err, &due) {
			return model.CustomerRecord{}, err
		}
		return model.CustomerRecord{}, &DataUnreadableError{Path: path, Column: col, Row: i + 1, Err: err}
	}

	raw, err := fc.cell(path, ColHasGas, i)
	if err != nil {
		return fail(ColHasGas, err)
	}
	if rec.HasGas, err = model.ParseGasFlag(raw); err != nil {
		return fail(ColHasGas, err)
	}

	if raw, err = fc.cell(path, ColChurn, i); err != nil {
		return fail(ColChurn, err)
	}
	if rec.Churn, err = model.ParseChurn(raw); err != nil {
		return fail(ColChurn, err)
	}

	if raw, err = fc.cell(path, ColNbProdAct, i); err != nil {
		return fail(ColNbProdAct, err)
	}
	if rec.NbProdAct, err = ParseCount(raw); err != nil {
		return fail(ColNbProdAct, err)
	}

	if rec.OriginUp, err = fc.cell(path, ColOriginUp, i); err != nil {
		return fail(ColOriginUp, err)
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{ColCons12m, &rec.Cons12m},
		{ColMarginNetPowEle, &rec.MarginNetPowEle},
		{ColPowMax, &rec.PowMax},
	}
	for _, fl := range floats {
		if raw, err = fc.cell(path, fl.col, i); err != nil {
			return fail(fl.col, err)
		}
		if *fl.dst, err = cast.ToFloat64E(raw); err != nil {
			return fail(fl.col, err)
		}
	}

	dates := []struct {
		col string
		dst *time.Time
	}{
		{ColDateActiv, &rec.DateActiv},
		{ColDateEnd, &rec.DateEnd},
		{ColDateModifProd, &rec.DateModifProd},
		{ColDateRenewal, &rec.DateRenewal},
	}
	for _, d := range dates {
		if raw, err = fc.cell(path, d.col, i); err != nil {
			return fail(d.col, err)
		}
		if *d.dst, err = ParseDate(raw); err != nil {
			return fail(d.col, err)
		}
	}

	return rec, nil
}

// ParseDate parses a date cell using the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
