package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"landScope/internal/chain"
	"landScope/internal/config"
	"landScope/internal/registry"
)

func main() {
	root := &cobra.Command{
		Use:          "landscope",
		Short:        "Land registry client",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "List land records",
		RunE:  runRecords,
	}
	addLedgerFlags(recordsCmd.Flags(), 5)
	recordsCmd.Flags().String("in", "", "read records from a JSONL export instead of the ledger")
	recordsCmd.Flags().String("pg-dsn", "", "read records from Postgres instead of the ledger")
	recordsCmd.Flags().String("out", "", "write the record set to a JSONL export")
	recordsCmd.Flags().Bool("mine", false, "only records owned by --account")
	root.AddCommand(recordsCmd)

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search land records",
		RunE:  runSearch,
	}
	addLedgerFlags(searchCmd.Flags(), 5)
	searchCmd.Flags().String("in", "", "search a JSONL export instead of the ledger")
	searchCmd.Flags().String("pg-dsn", "", "search records stored in Postgres instead of the ledger")
	searchCmd.Flags().String("field", "location", "simple search field (location, area, surveyNumber, price)")
	searchCmd.Flags().String("value", "", "simple search value")
	searchCmd.Flags().Bool("advanced", false, "combine the advanced filters below")
	searchCmd.Flags().String("location", "", "location substring")
	searchCmd.Flags().String("area", "", "approximate area (+/-200)")
	searchCmd.Flags().String("survey-number", "", "survey number substring")
	searchCmd.Flags().String("price-min", "", "minimum price in ETH")
	searchCmd.Flags().String("price-max", "", "maximum price in ETH")
	searchCmd.Flags().String("documents", "any", "document filter (any, yes, no)")
	root.AddCommand(searchCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print the merged registration and transfer history",
		RunE:  runHistory,
	}
	addLedgerFlags(historyCmd.Flags(), 5)
	addSinkFlags(historyCmd.Flags())
	root.AddCommand(historyCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll records and history until interrupted",
		RunE:  runWatch,
	}
	addLedgerFlags(watchCmd.Flags(), 0)
	addSinkFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().String("out", "", "JSONL export rewritten on every record refresh")
	root.AddCommand(watchCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print dashboard counters for --account",
		RunE:  runSummary,
	}
	addLedgerFlags(summaryCmd.Flags(), 5)
	root.AddCommand(summaryCmd)

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a land parcel owned by the signing account",
		RunE:  runRegister,
	}
	addLedgerFlags(registerCmd.Flags(), 5)
	addSignerFlags(registerCmd.Flags())
	registerCmd.Flags().String("location", "", "parcel location")
	registerCmd.Flags().Uint64("area", 0, "parcel area")
	registerCmd.Flags().String("survey-number", "", "survey number")
	registerCmd.Flags().String("price", "", "price in ETH")
	registerCmd.Flags().String("document-hash", "", "document content reference")
	registerCmd.Flags().String("image-hash", "", "image content reference")
	root.AddCommand(registerCmd)

	transferCmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer ownership of a land parcel",
		RunE:  runTransfer,
	}
	addLedgerFlags(transferCmd.Flags(), 5)
	addSignerFlags(transferCmd.Flags())
	transferCmd.Flags().Uint64("id", 0, "land id")
	transferCmd.Flags().String("new-owner", "", "new owner address")
	root.AddCommand(transferCmd)

	blocksCmd := &cobra.Command{
		Use:   "blocks",
		Short: "List the most recent blocks",
		RunE:  runBlocks,
	}
	blocksCmd.Flags().String("rpc", "", "RPC URL")
	blocksCmd.Flags().Int("count", 10, "number of blocks")
	blocksCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(blocksCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLedgerFlags(flags *pflag.FlagSet, maxRetries int) {
	flags.String("rpc", "", "RPC URL")
	flags.String("contract", "", "LandRegistry contract address")
	flags.String("account", "", "account used for ownership views")
	flags.Uint64("from-block", 0, "first block scanned for history events")
	flags.Uint64("batch-size", 2000, "blocks per log query")
	flags.Int("max-retries", maxRetries, "maximum retry attempts per ledger read")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func addSinkFlags(flags *pflag.FlagSet) {
	flags.String("snapshot", "", "history snapshot file")
	flags.String("pg-dsn", "", "Postgres DSN for records and history")
}

func addSignerFlags(flags *pflag.FlagSet) {
	flags.String("private-key", "", "hex private key of the signing account")
	flags.Duration("timeout", 2*time.Minute, "confirmation timeout")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// openRegistry dials the RPC endpoint and binds the registry contract.
// The caller closes the returned client.
func openRegistry(ctx context.Context, cfg config.Config, logger *zap.Logger) (*chain.Client, *registry.Registry, error) {
	if err := cfg.RequireLedger(); err != nil {
		return nil, nil, err
	}
	contract, err := chain.ParseAddress(cfg.Contract)
	if err != nil {
		return nil, nil, fmt.Errorf("contract: %w", err)
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rpc: %w", err)
	}

	reg, err := registry.New(registry.Config{
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, contract, logger)
	if err != nil {
		chainClient.Close()
		return nil, nil, err
	}
	return chainClient, reg, nil
}
