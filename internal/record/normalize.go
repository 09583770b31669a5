package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"landScope/internal/model"
)

// ErrMalformedRecord reports a raw record that cannot be normalized.
var ErrMalformedRecord = errors.New("malformed record")

// Rejection records a raw record excluded from a batch.
type Rejection struct {
	Index int
	Err   error
}

// Normalize converts a raw record into a LandRecord. Missing document and
// image hashes become empty strings; any other gap rejects the record.
func Normalize(raw Raw) (model.LandRecord, error) {
	fields, ok := raw.fields()
	if !ok {
		return model.LandRecord{}, fmt.Errorf("%w: expected %d positional values or all named fields (got %d values)",
			ErrMalformedRecord, len(PositionalOrder), len(raw.Positional))
	}

	var record model.LandRecord
	var err error

	if record.ID, err = asUint64(fields[FieldID]); err != nil {
		return model.LandRecord{}, fieldError(FieldID, err)
	}
	if record.Location, err = asString(fields[FieldLocation]); err != nil {
		return model.LandRecord{}, fieldError(FieldLocation, err)
	}
	if record.Area, err = asUint64(fields[FieldArea]); err != nil {
		return model.LandRecord{}, fieldError(FieldArea, err)
	}
	if record.SurveyNumber, err = asString(fields[FieldSurveyNumber]); err != nil {
		return model.LandRecord{}, fieldError(FieldSurveyNumber, err)
	}
	if record.Owner, err = asAddress(fields[FieldOwner]); err != nil {
		return model.LandRecord{}, fieldError(FieldOwner, err)
	}
	if record.Price, err = asBigInt(fields[FieldPrice]); err != nil {
		return model.LandRecord{}, fieldError(FieldPrice, err)
	}
	if record.IsVerified, err = asBool(fields[FieldIsVerified]); err != nil {
		return model.LandRecord{}, fieldError(FieldIsVerified, err)
	}
	if record.DocumentHash, err = asOptionalString(fields[FieldDocumentHash]); err != nil {
		return model.LandRecord{}, fieldError(FieldDocumentHash, err)
	}
	if record.ImageHash, err = asOptionalString(fields[FieldImageHash]); err != nil {
		return model.LandRecord{}, fieldError(FieldImageHash, err)
	}

	return record, nil
}

// NormalizeAll normalizes a batch, skipping records that fail. The relative
// order of accepted records is preserved.
func NormalizeAll(raws []Raw) ([]model.LandRecord, []Rejection) {
	records := make([]model.LandRecord, 0, len(raws))
	var rejected []Rejection
	for i, raw := range raws {
		record, err := Normalize(raw)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Err: err})
			continue
		}
		records = append(records, record)
	}
	return records, rejected
}

func fieldError(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
}

func asUint64(value interface{}) (uint64, error) {
	switch typed := value.(type) {
	case uint64:
		return typed, nil
	case uint32:
		return uint64(typed), nil
	case uint:
		return uint64(typed), nil
	case int:
		if typed < 0 {
			return 0, fmt.Errorf("negative value %d", typed)
		}
		return uint64(typed), nil
	case int64:
		if typed < 0 {
			return 0, fmt.Errorf("negative value %d", typed)
		}
		return uint64(typed), nil
	case float64:
		if typed < 0 || typed != math.Trunc(typed) || typed > 1<<53 {
			return 0, fmt.Errorf("not an unsigned integer: %v", typed)
		}
		return uint64(typed), nil
	case *big.Int, big.Int, json.Number, string:
		n, err := asBigInt(typed)
		if err != nil {
			return 0, err
		}
		if !n.IsUint64() {
			return 0, fmt.Errorf("value %s overflows uint64", n)
		}
		return n.Uint64(), nil
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("unexpected type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	var out *big.Int
	switch typed := value.(type) {
	case *big.Int:
		if typed == nil {
			return nil, fmt.Errorf("missing value")
		}
		out = new(big.Int).Set(typed)
	case big.Int:
		out = new(big.Int).Set(&typed)
	case json.Number:
		return asBigInt(string(typed))
	case string:
		parsed, ok := new(big.Int).SetString(strings.TrimSpace(typed), 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", typed)
		}
		out = parsed
	case uint64, uint32, uint, int, int64, float64:
		n, err := asUint64(typed)
		if err != nil {
			return nil, err
		}
		out = new(big.Int).SetUint64(n)
	case nil:
		return nil, fmt.Errorf("missing value")
	default:
		return nil, fmt.Errorf("unexpected type %T", value)
	}
	if out.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s", out)
	}
	return out, nil
}

func asString(value interface{}) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case nil:
		return "", fmt.Errorf("missing value")
	default:
		return "", fmt.Errorf("unexpected type %T", value)
	}
}

func asOptionalString(value interface{}) (string, error) {
	if value == nil {
		return "", nil
	}
	return asString(value)
}

func asAddress(value interface{}) (string, error) {
	switch typed := value.(type) {
	case common.Address:
		return typed.Hex(), nil
	case *common.Address:
		if typed == nil {
			return "", fmt.Errorf("missing value")
		}
		return typed.Hex(), nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return "", fmt.Errorf("empty address")
		}
		return typed, nil
	case nil:
		return "", fmt.Errorf("missing value")
	default:
		return "", fmt.Errorf("unexpected type %T", value)
	}
}

func asBool(value interface{}) (bool, error) {
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(typed))
	case nil:
		return false, fmt.Errorf("missing value")
	default:
		return false, fmt.Errorf("unexpected type %T", value)
	}
}
