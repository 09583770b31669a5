package address

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	prefixLen = 6
	suffixLen = 4
)

// Shorten returns "<first 6>...<last 4>" for display. An empty address
// yields an empty string; addresses too short to abbreviate are returned as is.
func Shorten(address string) string {
	if address == "" {
		return ""
	}
	if len(address) <= prefixLen+suffixLen {
		return address
	}
	return address[:prefixLen] + "..." + address[len(address)-suffixLen:]
}

// ShortenAddress is Shorten for a typed account, using its checksummed form.
func ShortenAddress(address *common.Address) string {
	if address == nil {
		return ""
	}
	return Shorten(address.Hex())
}

// EqualsIgnoreCase compares two account identifiers ignoring letter case.
func EqualsIgnoreCase(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsOwner reports whether account owns an asset held by owner.
// A blank account never owns anything.
func IsOwner(owner, account string) bool {
	if strings.TrimSpace(account) == "" {
		return false
	}
	return EqualsIgnoreCase(owner, account)
}
