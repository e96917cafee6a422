package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/churnboard/internal/config"
	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/server"
	"github.com/theirongolddev/churnboard/internal/store"
)

var (
	flagServeAddr string
	flagServeJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard aggregates over HTTP",
	Long: "Serve summary, channel, cohort, customer and chart endpoints under /v1.\n" +
		"Filters come from the query string: gas, channel, min_products, max_products.",
	RunE: runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe a running server's health endpoint",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().BoolVar(&flagServeJSON, "log-json", false, "Write request logs as JSON")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr(cfg config.Config) string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return cfg.Server.Addr
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if flagServeJSON {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	path, err := resolveDataPath(cfg)
	if err != nil {
		return err
	}

	var cache *store.Cache
	if !flagNoCache && !cfg.General.NoCache {
		if c, err := store.Open(pipeline.CachePath()); err == nil {
			cache = c
			defer cache.Close()
		} else {
			logger.Warn("cache unavailable, parsing dataset directly", "error", err)
		}
	}

	dataset := func() (model.Dataset, error) {
		if cache != nil {
			ds, _, err := pipeline.LoadDatasetCached(path, cache)
			return ds, err
		}
		return pipeline.LoadDataset(path)
	}

	// Fail fast on an unreadable dataset instead of on the first request.
	ds, err := dataset()
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "path", path, "customers", ds.Len(), "channels", len(ds.Channels()))

	svc := server.New(server.Config{
		Addr:        serveAddr(cfg),
		DataFile:    path,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	}, dataset)

	if !flagQuiet {
		fmt.Printf("  churnboard listening on http://%s\n", serveAddr(cfg))
		fmt.Printf("  Try: http://%s/v1/summary?gas=Yes\n", serveAddr(cfg))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := serveAddr(cfg)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/healthz") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  Server: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  Server: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  Server: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Server: %s\n", st.Status)
	fmt.Printf("  Started: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Uptime: %s\n", (time.Duration(st.UptimeSec) * time.Second).String())
	if st.DataFile != "" {
		fmt.Printf("  Dataset: %s\n", st.DataFile)
	}
	return nil
}
