package registry

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"landScope/internal/model"
	"landScope/internal/record"
)

// decodeLands unpacks getAllLands output into positional raw records, one
// per tuple, in tuple field order.
func decodeLands(registryABI abi.ABI, output []byte) ([]record.Raw, error) {
	values, err := registryABI.Unpack(methodGetAllLands, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", methodGetAllLands, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s return size %d", methodGetAllLands, len(values))
	}

	list := reflect.ValueOf(values[0])
	if list.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s unexpected type %T", methodGetAllLands, values[0])
	}

	raws := make([]record.Raw, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		tuple := list.Index(i)
		if tuple.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%s element %d unexpected kind %s", methodGetAllLands, i, tuple.Kind())
		}
		fields := make([]interface{}, tuple.NumField())
		for j := range fields {
			fields[j] = tuple.Field(j).Interface()
		}
		raws = append(raws, record.Positional(fields...))
	}
	return raws, nil
}

// decodeEventLog flattens an event log into a ledger event with a string payload.
func decodeEventLog(event abi.Event, log types.Log) (model.LedgerEvent, error) {
	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return model.LedgerEvent{}, fmt.Errorf("log is not a %s event", event.Name)
	}

	indexed := indexedArguments(event.Inputs)
	if len(log.Topics) != len(indexed)+1 {
		return model.LedgerEvent{}, fmt.Errorf("%s: expected %d topics, got %d", event.Name, len(indexed)+1, len(log.Topics))
	}

	fields := make(map[string]interface{}, len(event.Inputs))
	if err := abi.ParseTopicsIntoMap(fields, indexed, log.Topics[1:]); err != nil {
		return model.LedgerEvent{}, fmt.Errorf("%s: parse topics: %w", event.Name, err)
	}

	nonIndexed := event.Inputs.NonIndexed()
	values, err := nonIndexed.Unpack(log.Data)
	if err != nil {
		return model.LedgerEvent{}, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	if len(values) != len(nonIndexed) {
		return model.LedgerEvent{}, fmt.Errorf("unexpected %s values: %d", event.Name, len(values))
	}
	for i, arg := range nonIndexed {
		fields[arg.Name] = values[i]
	}

	payload := make(map[string]string, len(fields)+3)
	for name, value := range fields {
		payload[name] = stringify(value)
	}
	payload["txHash"] = log.TxHash.Hex()
	payload["blockHash"] = log.BlockHash.Hex()
	payload["logIndex"] = strconv.FormatUint(uint64(log.Index), 10)

	return model.LedgerEvent{
		LedgerOrder: log.BlockNumber,
		Payload:     payload,
	}, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func stringify(value interface{}) string {
	switch typed := value.(type) {
	case common.Address:
		return typed.Hex()
	case common.Hash:
		return typed.Hex()
	case *big.Int:
		if typed == nil {
			return ""
		}
		return typed.String()
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case []byte:
		return hexutil.Encode(typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
