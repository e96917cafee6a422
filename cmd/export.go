package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/config"
	"github.com/theirongolddev/churnboard/internal/report"
)

var (
	flagExportDir  string
	flagExportXLSX bool
	flagExportPNG  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the three charts as PNG and the tables as an XLSX workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportDir, "out", "o", "", "Output directory (default from config)")
	exportCmd.Flags().BoolVar(&flagExportPNG, "png", true, "Write PNG charts")
	exportCmd.Flags().BoolVar(&flagExportXLSX, "xlsx", true, "Write the XLSX workbook")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	sel, err := selectCustomers(cmd)
	if err != nil {
		return err
	}
	if printEmpty(sel) {
		return nil
	}

	dir := flagExportDir
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dir = cfg.Export.Dir
	}

	fmt.Println()
	if flagExportPNG {
		paths, err := report.SaveCharts(dir, sel.Filtered)
		if err != nil {
			return fmt.Errorf("exporting charts: %w", err)
		}
		for _, p := range paths {
			fmt.Printf("  Wrote %s\n", p)
		}
	}

	if flagExportXLSX {
		path := filepath.Join(dir, "churn.xlsx")
		if err := report.SaveWorkbook(path, sel.Filtered, sel.Criteria); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}
		fmt.Printf("  Wrote %s\n", path)
	}
	fmt.Printf("  Filters: %s\n\n", sel.Criteria)

	return nil
}
