package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landScope/internal/chain"
	"landScope/internal/config"
	"landScope/internal/model"
	"landScope/internal/money"
	"landScope/internal/registry"
)

type receiptView struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
	Status      uint64 `json:"status"`
}

func runRegister(cmd *cobra.Command, _ []string) error {
	return runTx(cmd, func(ctx context.Context, cfg config.TxConfig, reg *registry.Registry, opts *bind.TransactOpts) (*registry.PendingTx, error) {
		if cfg.Location == "" || cfg.SurveyNumber == "" {
			return nil, fmt.Errorf("location and survey number are required")
		}
		price, err := money.ToBaseUnits(cfg.Price)
		if err != nil {
			return nil, err
		}
		return reg.SubmitRegistration(ctx, opts, model.Registration{
			Location:     cfg.Location,
			Area:         cfg.Area,
			SurveyNumber: cfg.SurveyNumber,
			Price:        price,
			DocumentHash: cfg.DocumentHash,
			ImageHash:    cfg.ImageHash,
		})
	})
}

func runTransfer(cmd *cobra.Command, _ []string) error {
	return runTx(cmd, func(ctx context.Context, cfg config.TxConfig, reg *registry.Registry, opts *bind.TransactOpts) (*registry.PendingTx, error) {
		newOwner, err := chain.ParseAddress(cfg.NewOwner)
		if err != nil {
			return nil, fmt.Errorf("new owner: %w", err)
		}
		return reg.SubmitTransfer(ctx, opts, cfg.LandID, newOwner)
	})
}

type submitFunc func(ctx context.Context, cfg config.TxConfig, reg *registry.Registry, opts *bind.TransactOpts) (*registry.PendingTx, error)

func runTx(cmd *cobra.Command, submit submitFunc) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTx(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	key, err := chain.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, reg, err := openRegistry(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return fmt.Errorf("transactor: %w", err)
	}

	pending, err := submit(ctx, cfg, reg, opts)
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	receipt, err := pending.Confirmed(waitCtx)
	if err != nil {
		logger.Error("transaction failed", zap.String("tx_hash", pending.Hash().Hex()), zap.Error(err))
		return err
	}

	out := newJSONLWriter(cmd.OutOrStdout())
	if err := out.Write(receiptView{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Status:      receipt.Status,
	}); err != nil {
		return err
	}
	return out.Flush()
}
