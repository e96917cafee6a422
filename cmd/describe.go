package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/report"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Descriptive statistics of the numeric columns",
	RunE:  runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	sel, err := selectCustomers(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DESCRIPTIVE STATISTICS"))
	fmt.Println()

	if printEmpty(sel) {
		return nil
	}

	records := report.Describe(sel.Filtered)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: records[0],
		Rows:    records[1:],
	}))
	fmt.Println()

	return nil
}
