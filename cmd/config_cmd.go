// Package cmd implements the churnboard CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/churnboard/internal/config"
	"github.com/theirongolddev/churnboard/internal/pipeline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	dataFile := config.GetDataFile(cfg)
	switch {
	case dataFile == "":
		fmt.Println("    Data file: not set (looks in ./data)")
	case cfg.General.DataFile != dataFile:
		fmt.Printf("    Data file: %s (from $%s)\n", dataFile, config.DataEnv)
	default:
		fmt.Printf("    Data file: %s\n", dataFile)
	}
	fmt.Printf("    No cache:  %v\n", cfg.General.NoCache)
	fmt.Printf("    Cache:     %s\n", pipeline.CachePath())
	fmt.Println()

	fmt.Println("  [Filters]")
	fmt.Printf("    Gas:          %s\n", listOrAll(cfg.Filters.Gas))
	fmt.Printf("    Channels:     %s\n", listOrAll(cfg.Filters.Channels))
	fmt.Printf("    Min products: %s\n", intOrAll(cfg.Filters.MinProducts))
	fmt.Printf("    Max products: %s\n", intOrAll(cfg.Filters.MaxProducts))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:      %s\n", cfg.Server.Addr)
	fmt.Printf("    CORS origins: %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
	fmt.Println()

	fmt.Println("  [Export]")
	fmt.Printf("    Directory: %s\n", cfg.Export.Dir)
	fmt.Println()

	fmt.Println("  Run `churnboard setup` to reconfigure.")
	return nil
}

func listOrAll(values []string) string {
	if values == nil {
		return "all"
	}
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func intOrAll(v *int) string {
	if v == nil {
		return "dataset bound"
	}
	return fmt.Sprintf("%d", *v)
}
