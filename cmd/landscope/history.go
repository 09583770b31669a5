package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landScope/internal/config"
	"landScope/internal/history"
	"landScope/internal/poll"
	"landScope/internal/query"
	"landScope/internal/record"
	"landScope/internal/storage"
	"landScope/internal/storage/postgres"
)

type sinks struct {
	history []history.Sink
	records []storage.RecordSink
	close   func()
}

func openSinks(ctx context.Context, cfg config.WatchConfig) (sinks, error) {
	out := sinks{close: func() {}}
	if cfg.Snapshot != "" {
		out.history = append(out.history, storage.NewSnapshotStore(cfg.Snapshot))
	}
	if cfg.Out != "" {
		out.records = append(out.records, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return sinks{}, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return sinks{}, err
		}
		out.history = append(out.history, store)
		out.records = append(out.records, store)
		out.close = store.Close
	}
	return out, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, reg, err := openRegistry(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	out, err := openSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer out.close()

	poller := history.NewPoller(history.NewAggregator(reg, cfg.FromBlock, logger), logger, out.history...)
	if err := poller.Refresh(ctx); err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), poller.Current())
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, reg, err := openRegistry(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	out, err := openSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer out.close()

	catalog := record.NewCatalog(logger)
	poller := history.NewPoller(history.NewAggregator(reg, cfg.FromBlock, logger), logger, out.history...)

	logger.Info("watch start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("contract", reg.Address().Hex()),
		zap.Uint64("from_block", cfg.FromBlock),
		zap.Duration("interval", cfg.Interval),
		zap.String("snapshot", cfg.Snapshot),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)

	refreshRecords := func(ctx context.Context) error {
		records, err := catalog.Refresh(ctx, reg)
		if err != nil {
			return err
		}
		for _, sink := range out.records {
			if err := sink.ReplaceRecords(ctx, records); err != nil {
				logger.Warn("record sink failed", zap.Error(err))
			}
		}
		summary := query.Summarize(records, poller.Current(), cfg.Account)
		logger.Info("records refreshed",
			zap.Int("total", summary.TotalLands),
			zap.Int("owned", summary.OwnedLands),
			zap.Int("verified", summary.VerifiedLands),
			zap.Int("transactions", summary.Transactions),
		)
		return nil
	}

	recordsTask := poll.Start(ctx, "records", cfg.Interval, refreshRecords, logger)
	historyTask := poller.Start(ctx, cfg.Interval)

	<-ctx.Done()
	recordsTask.Stop()
	historyTask.Stop()

	logger.Info("watch stopped",
		zap.Int("records", len(catalog.Snapshot())),
		zap.Int("history", len(poller.Current())),
	)
	return nil
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, reg, err := openRegistry(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	records, err := record.NewCatalog(logger).Refresh(ctx, reg)
	if err != nil {
		return err
	}
	events, err := history.NewAggregator(reg, cfg.FromBlock, logger).Collect(ctx)
	if err != nil {
		return err
	}

	out := newJSONLWriter(cmd.OutOrStdout())
	if err := out.Write(query.Summarize(records, events, cfg.Account)); err != nil {
		return err
	}
	return out.Flush()
}
