package money

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of implied fractional digits in a base-unit amount.
const Decimals = 18

// ErrInvalidAmount reports a malformed monetary input.
var ErrInvalidAmount = errors.New("invalid amount")

var amountPattern = regexp.MustCompile(`^([0-9]+\.?[0-9]*|\.[0-9]+)$`)

// ToBaseUnits converts a non-negative decimal string into base units.
// An empty string is treated as zero.
func ToBaseUnits(input string) (*big.Int, error) {
	if input == "" {
		return big.NewInt(0), nil
	}
	if !amountPattern.MatchString(input) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if idx := strings.IndexByte(input, '.'); idx >= 0 {
		if len(input[idx+1:]) > Decimals {
			return nil, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, input, Decimals)
		}
	}

	value, err := decimal.NewFromString(strings.TrimSuffix(input, "."))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, input, err)
	}
	return value.Shift(Decimals).BigInt(), nil
}

// ToDecimalString formats base units as a decimal string with at least one
// fractional digit ("1.5", "2.0"). Nil or negative values yield "0".
func ToDecimalString(value *big.Int) string {
	if value == nil || value.Sign() < 0 {
		return "0"
	}
	text := decimal.NewFromBigInt(value, -Decimals).String()
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

// FormatBaseUnits formats a base-unit integer given as a decimal string.
// Anything that is not a non-negative integer yields "0".
func FormatBaseUnits(input string) string {
	value, ok := new(big.Int).SetString(strings.TrimSpace(input), 10)
	if !ok {
		return "0"
	}
	return ToDecimalString(value)
}
