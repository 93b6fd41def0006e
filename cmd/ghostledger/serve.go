package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"ghostledger/config"
	"ghostledger/core"
	"ghostledger/core/events"
	"ghostledger/gateway"
	"ghostledger/indexer"
	"ghostledger/observability"
	"ghostledger/observability/logging"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Open the ledger and serve the read-only API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serveRun(ctx, cfg, logger)
		},
	}
}

func serveRun(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	var (
		index *indexer.Store
		sinks []events.Emitter
	)
	if cfg.Indexer.Enabled {
		var err error
		index, err = indexer.Open(cfg.IndexPath())
		if err != nil {
			return err
		}
		defer index.Close()
		index.SetLogger(logger)
		sinks = append(sinks, index)
	}

	ledger, err := core.Open(cfg, observability.Ledger(), sinks...)
	if err != nil {
		return err
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("close ledger", slog.Any("error", err))
		}
	}()
	if index != nil {
		index.SetClock(ledger.Clock().Stamp)
	}
	height, now := ledger.Clock().Stamp()
	logger.Info("ledger opened",
		slog.Uint64("chain_id", ledger.ChainID()),
		slog.String("backend", cfg.DBBackend),
		slog.Uint64("height", height),
		slog.Int64("time", now),
		logging.MaskField("address", ledger.Vesting.Address().Hex()),
		logging.MaskField("path", cfg.StatePath()))

	handler, err := gateway.NewHandler(ledger, index, cfg.API, prometheus.DefaultRegisterer, prometheus.DefaultGatherer, logger)
	if err != nil {
		return err
	}
	srv, err := gateway.Listen(cfg.API, handler, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
