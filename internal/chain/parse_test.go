package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x5FbDB2315678afecb367f032d93F642f64180aa3 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Hex() != "0x5FbDB2315678afecb367f032d93F642f64180aa3" {
		t.Fatalf("unexpected address: %s", addr.Hex())
	}
	if _, err := ParseAddress("0x1234"); err == nil {
		t.Fatalf("expected error for short address")
	}
}

func TestParsePrivateKey(t *testing.T) {
	// Well-known development key #0.
	key, err := ParsePrivateKey("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := crypto.PubkeyToAddress(key.PublicKey).Hex(); got != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
		t.Fatalf("unexpected address: %s", got)
	}
	if _, err := ParsePrivateKey(""); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, err := ParsePrivateKey("zz"); err == nil {
		t.Fatalf("expected error for invalid key")
	}
}
