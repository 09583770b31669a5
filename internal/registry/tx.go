package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"landScope/internal/model"
)

// PendingTx is a submitted registry transaction awaiting confirmation.
type PendingTx struct {
	tx       *types.Transaction
	registry *Registry
}

// Hash returns the transaction hash.
func (p *PendingTx) Hash() common.Hash {
	return p.tx.Hash()
}

// Confirmed waits for the transaction to be mined. A failed receipt yields
// a *RevertError carrying the ledger's reason when one can be recovered.
func (p *PendingTx) Confirmed(ctx context.Context) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.registry.chain.Backend(), p.tx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", p.tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return receipt, nil
	}

	reason := p.registry.replayReason(ctx, p.tx, receipt.BlockNumber)
	return receipt, &RevertError{TxHash: p.tx.Hash(), Reason: reason}
}

// SubmitRegistration sends registerLand signed by opts. The caller's account
// becomes the owner.
func (r *Registry) SubmitRegistration(ctx context.Context, opts *bind.TransactOpts, reg model.Registration) (*PendingTx, error) {
	price := reg.Price
	if price == nil {
		price = new(big.Int)
	}
	return r.transact(ctx, opts, methodRegisterLand,
		reg.Location,
		new(big.Int).SetUint64(reg.Area),
		reg.SurveyNumber,
		price,
		reg.DocumentHash,
		reg.ImageHash,
	)
}

// SubmitTransfer sends transferOwnership for land id to newOwner.
func (r *Registry) SubmitTransfer(ctx context.Context, opts *bind.TransactOpts, id uint64, newOwner common.Address) (*PendingTx, error) {
	return r.transact(ctx, opts, methodTransferOwnership, new(big.Int).SetUint64(id), newOwner)
}

func (r *Registry) transact(ctx context.Context, opts *bind.TransactOpts, method string, params ...interface{}) (*PendingTx, error) {
	if opts == nil {
		return nil, fmt.Errorf("transact opts are required")
	}
	callOpts := *opts
	callOpts.Context = ctx

	tx, err := r.contract.Transact(&callOpts, method, params...)
	if err != nil {
		if reason, ok := revertReason(err); ok {
			return nil, &RevertError{Reason: reason}
		}
		return nil, fmt.Errorf("submit %s: %w", method, err)
	}

	r.logger.Info("transaction submitted",
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("from", opts.From.Hex()),
	)
	return &PendingTx{tx: tx, registry: r}, nil
}

// replayReason re-executes a failed transaction as a call on the parent
// state of its block to recover the revert reason.
func (r *Registry) replayReason(ctx context.Context, tx *types.Transaction, blockNumber *big.Int) string {
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		r.logger.Debug("recover sender failed", zap.Error(err))
		return ""
	}

	var at *big.Int
	if blockNumber != nil && blockNumber.Sign() > 0 {
		at = new(big.Int).Sub(blockNumber, big.NewInt(1))
	}

	msg := ethereum.CallMsg{
		From:  from,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	_, err = r.chain.CallContract(ctx, msg, at)
	reason, _ := revertReason(err)
	return reason
}
