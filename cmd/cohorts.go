package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/pipeline"
)

var cohortsCmd = &cobra.Command{
	Use:   "cohorts",
	Short: "Active and churned customers by activation year",
	RunE:  runCohorts,
}

func init() {
	rootCmd.AddCommand(cohortsCmd)
}

func runCohorts(cmd *cobra.Command, _ []string) error {
	sel, err := selectCustomers(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CHURN COHORTS BY ACTIVATION YEAR"))
	fmt.Println()

	if printEmpty(sel) {
		return nil
	}

	years := pipeline.FillCohorts(pipeline.AggregateCohorts(sel.Filtered))

	rows := make([][]string, 0, len(years))
	rates := make([]float64, 0, len(years))
	maxTotal := 0
	for _, y := range years {
		rate := float64(y.Churned) / float64(y.Total())
		rates = append(rates, rate)
		if y.Total() > maxTotal {
			maxTotal = y.Total()
		}
		rows = append(rows, []string{
			fmt.Sprint(y.Year),
			cli.FormatNumber(int64(y.Churned)),
			cli.FormatNumber(int64(y.Active)),
			cli.FormatNumber(int64(y.Total())),
			cli.FormatPercent(rate),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Year", "Churned", "Active", "Total", "Churn"},
		Rows:    rows,
	}))
	fmt.Println()

	for _, y := range years {
		fmt.Println(cli.RenderStackedBar(fmt.Sprint(y.Year), y.Active, y.Churned, maxTotal, 50))
	}
	fmt.Printf("\n  Churn rate trend: %s\n\n", cli.RenderSparkline(rates))

	return nil
}
