package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"landScope/internal/chain"
	"landScope/internal/config"
)

func runBlocks(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBlocks(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	blocks, err := chainClient.RecentBlocks(ctx, cfg.Count)
	if err != nil {
		return err
	}

	out := newJSONLWriter(cmd.OutOrStdout())
	for _, block := range blocks {
		if err := out.Write(block); err != nil {
			return err
		}
	}
	return out.Flush()
}
