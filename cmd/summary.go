package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline churn metrics for the current filters",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	sel, err := selectCustomers(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("POWERCO CUSTOMER CHURN"))
	fmt.Println()

	if printEmpty(sel) {
		return nil
	}

	stats := pipeline.Summarize(sel.Filtered)
	baseline := pipeline.Summarize(sel.Full)

	rows := [][]string{
		{"Customers", cli.FormatNumber(int64(stats.Count))},
		{"Share of dataset", cli.FormatPercent(float64(stats.Count) / float64(baseline.Count))},
		{"---"},
		{"Churn rate", cli.FormatPercent(stats.ChurnRate)},
		{"  vs. all customers", cli.FormatDelta(stats.ChurnRate, baseline.ChurnRate)},
		{"Avg net margin", cli.FormatMargin(stats.AvgMargin)},
		{"  vs. all customers", cli.FormatMargin(stats.AvgMargin - baseline.AvgMargin)},
	}

	table := cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}
	fmt.Print(cli.RenderTable(table))
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderShareBar(stats.Count, baseline.Count, 30))
	fmt.Printf("  Filters: %s\n", sel.Criteria)

	return nil
}
