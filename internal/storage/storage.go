package storage

import (
	"context"

	"landScope/internal/model"
)

// RecordSink receives every refreshed record set. Implementations replace
// the previously stored set as a whole.
type RecordSink interface {
	ReplaceRecords(ctx context.Context, records []model.LandRecord) error
}

// HistorySink receives every published history feed.
type HistorySink interface {
	ReplaceHistory(ctx context.Context, events []model.HistoryEvent) error
}

var (
	_ RecordSink  = (*JsonlStorage)(nil)
	_ HistorySink = (*SnapshotStore)(nil)
)
