package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/pipeline"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Churn rate by acquisition channel",
	RunE:  runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(cmd *cobra.Command, _ []string) error {
	sel, err := selectCustomers(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CHURN BY ACQUISITION CHANNEL"))
	fmt.Println()

	if printEmpty(sel) {
		return nil
	}

	channels := pipeline.AggregateChannels(sel.Filtered)
	overall := pipeline.Summarize(sel.Filtered).ChurnRate

	rows := make([][]string, 0, len(channels))
	for _, c := range channels {
		rows = append(rows, []string{
			c.Channel,
			cli.FormatNumber(int64(c.Customers)),
			cli.FormatPercent(c.Rate),
			cli.FormatDelta(c.Rate, overall),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Channel", "Customers", "Churn", "vs. avg"},
		Rows:    rows,
	}))
	fmt.Println()

	// Channels are sorted by rate, so the first is the maximum.
	maxRate := channels[0].Rate
	labelWidth := 0
	for _, c := range channels {
		if len(c.Channel) > labelWidth {
			labelWidth = len(c.Channel)
		}
	}
	for _, c := range channels {
		label := fmt.Sprintf("%-*s %6s", labelWidth, c.Channel, cli.FormatPercent(c.Rate))
		fmt.Println(cli.RenderHorizontalBar(label, c.Rate, maxRate, 40))
	}
	fmt.Println()

	return nil
}
