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
	"landScope/internal/model"
	"landScope/internal/query"
	"landScope/internal/record"
	"landScope/internal/storage"
	"landScope/internal/storage/postgres"
)

func runRecords(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRecords(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Mine && cfg.Account == "" {
		return fmt.Errorf("--mine requires an account")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := loadRecords(ctx, cfg.Config, cfg.In, cfg.PGDSN, logger)
	if err != nil {
		return err
	}

	if cfg.Out != "" {
		if err := storage.NewJsonlStorage(cfg.Out).ReplaceRecords(ctx, records); err != nil {
			return err
		}
		logger.Info("records exported", zap.String("out", cfg.Out), zap.Int("records", len(records)))
	}

	if cfg.Mine {
		records = query.OwnedBy(records, cfg.Account)
	}
	return writeRecords(cmd.OutOrStdout(), records, cfg.Account)
}

// loadRecords refreshes a catalog once from a JSONL export, Postgres, or the
// ledger, in that order of preference.
func loadRecords(ctx context.Context, cfg config.Config, in, pgDSN string, logger *zap.Logger) ([]model.LandRecord, error) {
	catalog := record.NewCatalog(logger)

	switch {
	case in != "":
		return catalog.Refresh(ctx, storage.NewJsonlStorage(in))
	case pgDSN != "":
		store, err := postgres.NewStore(ctx, pgDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		return catalog.Refresh(ctx, store)
	default:
		chainClient, reg, err := openRegistry(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		defer chainClient.Close()
		return catalog.Refresh(ctx, reg)
	}
}
