package record

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"landScope/internal/model"
)

// Source provides raw records, e.g. the registry contract or a JSONL export.
type Source interface {
	AllRecords(ctx context.Context) ([]Raw, error)
}

// Catalog holds the latest normalized record set. Each refresh replaces the
// whole set; readers always observe one complete snapshot.
type Catalog struct {
	current atomic.Pointer[[]model.LandRecord]
	logger  *zap.Logger
}

func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{logger: logger}
	empty := []model.LandRecord{}
	c.current.Store(&empty)
	return c
}

// Refresh fetches and normalizes all records and publishes them. On fetch
// failure the previous snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context, source Source) ([]model.LandRecord, error) {
	if source == nil {
		return nil, fmt.Errorf("record source is nil")
	}
	raws, err := source.AllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	records, rejected := NormalizeAll(raws)
	for _, rej := range rejected {
		c.logger.Warn("record rejected", zap.Int("index", rej.Index), zap.Error(rej.Err))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.current.Store(&records)

	c.logger.Debug("records refreshed", zap.Int("records", len(records)), zap.Int("rejected", len(rejected)))
	return records, nil
}

// Snapshot returns a copy of the current record set.
func (c *Catalog) Snapshot() []model.LandRecord {
	current := *c.current.Load()
	out := make([]model.LandRecord, len(current))
	copy(out, current)
	return out
}
