package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrLedgerUnavailable wraps failed reads from the registry. Callers may retry.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	// ErrTransactionReverted reports a mutation the ledger rejected. Never retried.
	ErrTransactionReverted = errors.New("transaction reverted")
)

// RevertError carries the ledger's reason for a reverted transaction.
type RevertError struct {
	TxHash common.Hash
	Reason string
}

func (e *RevertError) Error() string {
	var b strings.Builder
	b.WriteString(ErrTransactionReverted.Error())
	if e.TxHash != (common.Hash{}) {
		b.WriteString(" (")
		b.WriteString(e.TxHash.Hex())
		b.WriteString(")")
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *RevertError) Is(target error) bool {
	return target == ErrTransactionReverted
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLedgerUnavailable, op, err)
}

const revertPrefix = "execution reverted"

// revertReason extracts the revert reason from an RPC error, if it has one.
func revertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok {
			if raw, decodeErr := hexutil.Decode(data); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return reason, true
				}
			}
		}
	}

	msg := err.Error()
	if idx := strings.Index(msg, revertPrefix); idx >= 0 {
		reason := strings.TrimPrefix(msg[idx+len(revertPrefix):], ":")
		return strings.TrimSpace(reason), true
	}
	return "", false
}
