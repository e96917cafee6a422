package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
)

// Workbook sheet names.
const (
	SheetSummary   = "Summary"
	SheetChannels  = "Channels"
	SheetCohorts   = "Cohorts"
	SheetCustomers = "Customers"
)

// CustomerHeaders are the column titles of the Customers sheet.
var CustomerHeaders = []string{
	"id", "has_gas", "churn", "nb_prod_act", "origin_up", "cons_12m",
	"margin_net_pow_ele", "pow_max", "date_activ", "date_end",
	"date_modif_prod", "date_renewal",
}

// Workbook builds an XLSX workbook with the summary, both aggregates and
// the filtered customer rows sorted by margin descending.
func Workbook(ds model.Dataset, criteria model.Criteria) (*excelize.File, error) {
	if ds.IsEmpty() {
		return nil, ErrEmpty
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	sum := pipeline.Summarize(ds)
	summaryRows := [][]any{
		{"Customers", sum.Count},
		{"Churn rate", sum.ChurnRate},
		{"Average net margin", sum.AvgMargin},
		{"Filters", criteria.String()},
	}
	if err := writeSheet(f, SheetSummary, []string{"Metric", "Value"}, summaryRows); err != nil {
		return nil, err
	}

	var channelRows [][]any
	for _, c := range pipeline.AggregateChannels(ds) {
		channelRows = append(channelRows, []any{c.Channel, c.Rate, c.Customers})
	}
	if err := writeSheet(f, SheetChannels, []string{"Channel", "Churn rate", "Customers"}, channelRows); err != nil {
		return nil, err
	}

	var cohortRows [][]any
	for _, r := range pipeline.FillCohorts(pipeline.AggregateCohorts(ds)) {
		cohortRows = append(cohortRows, []any{r.Year, r.Churned, r.Active, r.Total()})
	}
	if err := writeSheet(f, SheetCohorts, []string{"Year", "Churned", "Active", "Total"}, cohortRows); err != nil {
		return nil, err
	}

	recs := pipeline.SortRecords(ds, pipeline.SortMargin, true)
	customerRows := make([][]any, len(recs))
	for i, r := range recs {
		customerRows[i] = []any{
			r.ID, string(r.HasGas), string(r.Label()), r.NbProdAct, r.OriginUp,
			r.Cons12m, r.MarginNetPowEle, r.PowMax,
			dateCell(r.DateActiv), dateCell(r.DateEnd), dateCell(r.DateModifProd), dateCell(r.DateRenewal),
		}
	}
	if err := writeSheet(f, SheetCustomers, CustomerHeaders, customerRows); err != nil {
		return nil, err
	}

	return f, nil
}

// SaveWorkbook writes the workbook for ds to path.
func SaveWorkbook(path string, ds model.Dataset, criteria model.Criteria) error {
	f, err := Workbook(ds, criteria)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// writeSheet writes a header row and data rows into sheet, creating it
// if it does not exist yet.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, 18); err != nil {
			return fmt.Errorf("sizing %s: %w", sheet, err)
		}
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func dateCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
