package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/pipeline"
)

var (
	flagSort  string
	flagAsc   bool
	flagLimit int
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Customer rows for the current filters, sorted by margin",
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().StringVar(&flagSort, "sort", pipeline.SortMargin,
		"Sort column: "+strings.Join(pipeline.SortColumns, ", "))
	tableCmd.Flags().BoolVar(&flagAsc, "asc", false, "Sort ascending instead of descending")
	tableCmd.Flags().IntVar(&flagLimit, "limit", 25, "Maximum rows to print (0 for all)")
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, _ []string) error {
	if !validSortColumn(flagSort) {
		return fmt.Errorf("unknown sort column %q (want one of %s)", flagSort, strings.Join(pipeline.SortColumns, ", "))
	}

	sel, err := selectCustomers(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CUSTOMERS"))
	fmt.Println()

	if printEmpty(sel) {
		return nil
	}

	recs := pipeline.SortRecords(sel.Filtered, flagSort, !flagAsc)
	shown := recs
	if flagLimit > 0 && len(shown) > flagLimit {
		shown = shown[:flagLimit]
	}

	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{
			shortID(r.ID),
			string(r.HasGas),
			string(r.Label()),
			fmt.Sprint(r.NbProdAct),
			shortID(r.OriginUp),
			cli.FormatKWh(r.Cons12m),
			cli.FormatMargin(r.MarginNetPowEle),
			cli.FormatPower(r.PowMax),
			cli.FormatDate(r.DateActiv),
			cli.FormatDate(r.DateRenewal),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Gas", "Status", "Products", "Channel", "Consumption", "Margin", "Power", "Activated", "Renewal"},
		Rows:     rows,
		TextCols: []int{1, 2, 4},
	}))

	order := "descending"
	if flagAsc {
		order = "ascending"
	}
	fmt.Printf("\n  Showing %s of %s customers, sorted by %s %s\n\n",
		cli.FormatNumber(int64(len(shown))), cli.FormatNumber(int64(len(recs))), flagSort, order)

	return nil
}

func validSortColumn(col string) bool {
	for _, c := range pipeline.SortColumns {
		if c == col {
			return true
		}
	}
	return false
}

// shortID trims the long hashed identifiers for terminal display.
func shortID(s string) string {
	if len(s) > 12 {
		return s[:10] + ".."
	}
	return s
}
