package model

import "strings"

// EventKind tags a history entry with the registry event it came from.
type EventKind string

const (
	LandRegistered       EventKind = "LandRegistered"
	OwnershipTransferred EventKind = "OwnershipTransferred"
)

// EventKinds lists the categories merged into the history feed, in tie-break order.
var EventKinds = []EventKind{LandRegistered, OwnershipTransferred}

// ParseEventKind resolves a category name, ignoring case.
func ParseEventKind(name string) (EventKind, bool) {
	for _, kind := range EventKinds {
		if strings.EqualFold(strings.TrimSpace(name), string(kind)) {
			return kind, true
		}
	}
	return "", false
}

// LedgerEvent is an untagged event as emitted by the registry.
type LedgerEvent struct {
	LedgerOrder uint64            `json:"ledger_order"`
	Payload     map[string]string `json:"payload"`
}

// HistoryEvent is a tagged entry of the merged history feed.
type HistoryEvent struct {
	Kind        EventKind         `json:"kind"`
	LedgerOrder uint64            `json:"ledger_order"`
	Payload     map[string]string `json:"payload"`
}
