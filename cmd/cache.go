package cmd

import (
	"fmt"

	"github.com/theirongolddev/churnboard/internal/config"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/store"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the dataset snapshot cache",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the snapshot of the current dataset",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStatus(_ *cobra.Command, _ []string) error {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	n, err := cache.DatasetCount()
	if err != nil {
		return fmt.Errorf("counting snapshots: %w", err)
	}
	fmt.Printf("  Cache:     %s\n", pipeline.CachePath())
	fmt.Printf("  Snapshots: %d\n", n)
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, err := resolveDataPath(cfg)
	if err != nil {
		return err
	}

	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if err := pipeline.ForgetSnapshot(path, cache); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Printf("  Cleared snapshot for %s\n", path)
	}
	return nil
}
