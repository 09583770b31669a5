package query

import (
	"landScope/internal/address"
	"landScope/internal/model"
)

// OwnedBy returns the records owned by account, compared case-insensitively.
func OwnedBy(records []model.LandRecord, account string) []model.LandRecord {
	out := make([]model.LandRecord, 0)
	for _, record := range records {
		if address.IsOwner(record.Owner, account) {
			out = append(out, record)
		}
	}
	return out
}

// Summary holds dashboard counters.
type Summary struct {
	TotalLands    int `json:"total_lands"`
	OwnedLands    int `json:"owned_lands"`
	VerifiedLands int `json:"verified_lands"`
	WithDocuments int `json:"with_documents"`
	Transactions  int `json:"transactions"`
}

// Summarize counts records and history entries for account.
func Summarize(records []model.LandRecord, history []model.HistoryEvent, account string) Summary {
	summary := Summary{
		TotalLands:   len(records),
		Transactions: len(history),
	}
	for _, record := range records {
		if address.IsOwner(record.Owner, account) {
			summary.OwnedLands++
		}
		if record.IsVerified {
			summary.VerifiedLands++
		}
		if record.HasDocument() {
			summary.WithDocuments++
		}
	}
	return summary
}
