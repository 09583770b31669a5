package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"landScope/internal/chain"
	"landScope/internal/history"
	"landScope/internal/model"
	"landScope/internal/record"
)

var (
	_ record.Source       = (*Registry)(nil)
	_ history.EventSource = (*Registry)(nil)
)

// Config holds read settings for the registry client.
type Config struct {
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// Registry reads and mutates land records on the LandRegistry contract.
type Registry struct {
	cfg      Config
	chain    *chain.Client
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	logger   *zap.Logger
}

// New binds the registry contract deployed at address.
func New(cfg Config, chainClient *chain.Client, address common.Address, logger *zap.Logger) (*Registry, error) {
	if chainClient == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 2000
	}

	registryABI, err := LandRegistryABI()
	if err != nil {
		return nil, fmt.Errorf("parse registry abi: %w", err)
	}

	backend := chainClient.Backend()
	return &Registry{
		cfg:      cfg,
		chain:    chainClient,
		address:  address,
		abi:      registryABI,
		contract: bind.NewBoundContract(address, registryABI, backend, backend, backend),
		logger:   logger,
	}, nil
}

// Address returns the contract address.
func (r *Registry) Address() common.Address {
	return r.address
}

// AllRecords returns every land record as a positional raw record.
func (r *Registry) AllRecords(ctx context.Context) ([]record.Raw, error) {
	data, err := r.abi.Pack(methodGetAllLands)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", methodGetAllLands, err)
	}

	var resp []byte
	err = chain.WithRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		resp, err = r.chain.CallContract(ctx, ethereum.CallMsg{To: &r.address, Data: data}, nil)
		if err != nil {
			r.logger.Warn("get all lands failed", zap.Error(err))
			if _, reverted := revertReason(err); reverted {
				return chain.Permanent(err)
			}
		}
		return err
	})
	if err != nil {
		return nil, unavailable("call "+methodGetAllLands, err)
	}

	return decodeLands(r.abi, resp)
}

// LatestBlockNumber returns the current chain head.
func (r *Registry) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var latest uint64
	err := chain.WithRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		latest, err = r.chain.LatestBlockNumber(ctx)
		return err
	})
	if err != nil {
		return 0, unavailable("latest block", err)
	}
	return latest, nil
}

// EventsByCategory returns all events of kind in [fromBlock, toBlock], in
// ledger log order. The range is fetched in BatchSize chunks.
func (r *Registry) EventsByCategory(ctx context.Context, kind model.EventKind, fromBlock, toBlock uint64) ([]model.LedgerEvent, error) {
	event, ok := r.abi.Events[string(kind)]
	if !ok {
		return nil, fmt.Errorf("unsupported event category: %s", kind)
	}

	ranges, err := chain.SplitRange(fromBlock, toBlock, r.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	events := make([]model.LedgerEvent, 0)
	for _, blockRange := range ranges {
		logs, err := r.filterLogsWithRetry(ctx, event.ID, blockRange)
		if err != nil {
			return nil, unavailable(fmt.Sprintf("filter %s logs %d-%d", kind, blockRange.From, blockRange.To), err)
		}

		for _, log := range logs {
			if log.Removed {
				continue
			}
			decoded, err := decodeEventLog(event, log)
			if err != nil {
				r.logger.Warn("decode event failed",
					zap.String("event", string(kind)),
					zap.Uint64("block_number", log.BlockNumber),
					zap.String("tx_hash", log.TxHash.Hex()),
					zap.Error(err),
				)
				continue
			}
			events = append(events, decoded)
		}
	}

	return events, nil
}

func (r *Registry) filterLogsWithRetry(ctx context.Context, topic0 common.Hash, blockRange chain.BlockRange) ([]types.Log, error) {
	var logs []types.Log
	err := chain.WithRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = r.chain.FilterLogs(ctx, blockRange.From, blockRange.To, []common.Address{r.address}, []common.Hash{topic0})
		if err != nil {
			r.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))
		}
		return err
	})
	return logs, err
}
