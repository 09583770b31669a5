package address

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestShorten(t *testing.T) {
	if got := Shorten(""); got != "" {
		t.Fatalf("empty address should shorten to empty, got %q", got)
	}
	if got := Shorten("0xABCDEF1234567890abcdef"); got != "0xABCD...cdef" {
		t.Fatalf("unexpected short form: %q", got)
	}
	if got := Shorten("0xabcdef1234567890ABCDEF"); got != "0xabcd...CDEF" {
		t.Fatalf("unexpected short form: %q", got)
	}
	if got := Shorten("0x1234"); got != "0x1234" {
		t.Fatalf("short input should be returned as is, got %q", got)
	}
}

func TestShortenAddress(t *testing.T) {
	if got := ShortenAddress(nil); got != "" {
		t.Fatalf("nil address should shorten to empty, got %q", got)
	}
	addr := common.HexToAddress("0x71c7656ec7ab88b098defb751b7401b5f6d8976f")
	if got := ShortenAddress(&addr); got != "0x71C7...976F" {
		t.Fatalf("unexpected short form: %q", got)
	}
}

func TestEqualsIgnoreCase(t *testing.T) {
	a := "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	b := "0x71c7656ec7ab88b098defb751b7401b5f6d8976f"
	if !EqualsIgnoreCase(a, b) {
		t.Fatalf("addresses differing only in case should be equal")
	}
	if EqualsIgnoreCase(a, "0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199") {
		t.Fatalf("different addresses should not be equal")
	}
}

func TestIsOwner(t *testing.T) {
	owner := "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	if !IsOwner(owner, "0x71c7656ec7ab88b098defb751b7401b5f6d8976f") {
		t.Fatalf("expected ownership match")
	}
	if IsOwner(owner, "") {
		t.Fatalf("blank account must not own anything")
	}
	if IsOwner("", "  ") {
		t.Fatalf("blank account must not own anything")
	}
}
