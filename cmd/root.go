package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/config"
	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/source"
	"github.com/theirongolddev/churnboard/internal/store"
)

var (
	flagData        string
	flagGas         []string
	flagChannels    []string
	flagMinProducts int
	flagMaxProducts int
	flagNoCache     bool
	flagQuiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "churnboard",
	Short: "PowerCo customer churn dashboard",
	Long: "Explore the cleaned PowerCo customer dataset: churn rate, margins,\n" +
		"churn by acquisition channel and activation cohorts, filtered by gas\n" +
		"subscription, active product count and channel.",
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagData, "data", "f", "", "Cleaned dataset file (default: config, $"+config.DataEnv+", or ./data/"+source.DefaultFileName+")")
	pf.StringSliceVar(&flagGas, "gas", nil, "Gas subscription to include: Yes, No (repeatable or comma separated)")
	pf.StringSliceVar(&flagChannels, "channel", nil, "Acquisition channels to include (repeatable or comma separated)")
	pf.IntVar(&flagMinProducts, "min-products", 0, "Minimum number of active products")
	pf.IntVar(&flagMaxProducts, "max-products", 0, "Maximum number of active products")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite snapshot, reparse the dataset")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// selection is the loaded dataset plus the filtered view every command
// renders.
type selection struct {
	Path     string
	Full     model.Dataset
	Filtered model.Dataset
	Criteria model.Criteria
}

// resolveDataPath picks the dataset file: flag, then env/config, then the
// conventional data/ directory.
func resolveDataPath(cfg config.Config) (string, error) {
	if flagData != "" {
		return flagData, nil
	}
	if p := config.GetDataFile(cfg); p != "" {
		return p, nil
	}
	wd, _ := os.Getwd()
	if p := source.Locate("", wd); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no dataset found: pass --data, set $%s, or run `churnboard setup`", config.DataEnv)
}

// loadData is the shared data loading path used by all commands.
// Uses the SQLite snapshot when available for fast subsequent runs.
func loadData(cfg config.Config) (string, model.Dataset, error) {
	path, err := resolveDataPath(cfg)
	if err != nil {
		return "", model.Dataset{}, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", path)
	}

	// Try cached load unless --no-cache
	if !flagNoCache && !cfg.General.NoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer cache.Close()

			ds, hit, err := pipeline.LoadDatasetCached(path, cache)
			if err != nil {
				return path, model.Dataset{}, err
			}
			if !flagQuiet {
				how := "Parsed"
				if hit {
					how = "Loaded from cache"
				}
				fmt.Fprintf(os.Stderr, "  %s: %s customers, %d channels\n",
					how, cli.FormatNumber(int64(ds.Len())), len(ds.Channels()))
			}
			return path, ds, nil
		}
	}

	ds, err := pipeline.LoadDataset(path)
	if err != nil {
		return path, model.Dataset{}, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Parsed %s customers, %d channels\n",
			cli.FormatNumber(int64(ds.Len())), len(ds.Channels()))
	}
	return path, ds, nil
}

// resolveCriteria layers flags over config filters over the all-inclusive
// defaults for ds.
func resolveCriteria(cmd *cobra.Command, cfg config.Config, ds model.Dataset) (model.Criteria, error) {
	c := pipeline.DefaultCriteria(ds)

	if cfg.Filters.Gas != nil {
		gas, err := pipeline.ParseGasLabels(cfg.Filters.Gas)
		if err != nil {
			return c, fmt.Errorf("config [filters]: %w", err)
		}
		c.Gas = gas
	}
	if cfg.Filters.Channels != nil {
		c.Channels = cfg.Filters.Channels
	}
	if cfg.Filters.MinProducts != nil {
		c.MinProducts = *cfg.Filters.MinProducts
	}
	if cfg.Filters.MaxProducts != nil {
		c.MaxProducts = *cfg.Filters.MaxProducts
	}

	flags := cmd.Flags()
	if flags.Changed("gas") {
		gas, err := pipeline.ParseGasLabels(pipeline.SplitList(flagGas))
		if err != nil {
			return c, err
		}
		c.Gas = gas
	}
	if flags.Changed("channel") {
		c.Channels = pipeline.SplitList(flagChannels)
	}
	if flags.Changed("min-products") {
		c.MinProducts = flagMinProducts
	}
	if flags.Changed("max-products") {
		c.MaxProducts = flagMaxProducts
	}
	return c, nil
}

// selectCustomers loads the dataset and applies the resolved criteria.
func selectCustomers(cmd *cobra.Command) (*selection, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path, ds, err := loadData(cfg)
	if err != nil {
		return nil, err
	}
	c, err := resolveCriteria(cmd, cfg, ds)
	if err != nil {
		return nil, err
	}
	filtered, err := pipeline.Filter(ds, c)
	if err != nil {
		return nil, err
	}
	return &selection{Path: path, Full: ds, Filtered: filtered, Criteria: c}, nil
}

// printEmpty prints the empty-selection notice when nothing matched and
// reports whether it did.
func printEmpty(sel *selection) bool {
	if !sel.Filtered.IsEmpty() {
		return false
	}
	fmt.Println()
	fmt.Print(cli.RenderEmpty())
	fmt.Printf("  Filters: %s\n", sel.Criteria)
	return true
}
