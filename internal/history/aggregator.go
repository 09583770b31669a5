package history

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"landScope/internal/model"
)

// EventSource reads registry events.
type EventSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	EventsByCategory(ctx context.Context, kind model.EventKind, fromBlock, toBlock uint64) ([]model.LedgerEvent, error)
}

// Aggregator merges every event category into one history, most recent first.
type Aggregator struct {
	source    EventSource
	fromBlock uint64
	kinds     []model.EventKind
	logger    *zap.Logger
}

func NewAggregator(source EventSource, fromBlock uint64, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		source:    source,
		fromBlock: fromBlock,
		kinds:     model.EventKinds,
		logger:    logger,
	}
}

// Collect fetches all categories over [fromBlock, latest] and merges them.
// Categories are fetched concurrently; nothing is returned unless all succeed.
func (a *Aggregator) Collect(ctx context.Context) ([]model.HistoryEvent, error) {
	if a.source == nil {
		return nil, fmt.Errorf("event source is nil")
	}

	latest, err := a.source.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	if a.fromBlock > latest {
		a.logger.Debug("nothing to fetch", zap.Uint64("from", a.fromBlock), zap.Uint64("latest", latest))
		return []model.HistoryEvent{}, nil
	}

	batches := make([][]model.HistoryEvent, len(a.kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range a.kinds {
		i, kind := i, kind
		g.Go(func() error {
			events, err := a.source.EventsByCategory(gctx, kind, a.fromBlock, latest)
			if err != nil {
				return fmt.Errorf("fetch %s events: %w", kind, err)
			}
			batches[i] = Tag(kind, events)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := Merge(batches...)
	a.logger.Debug("history collected",
		zap.Uint64("from", a.fromBlock),
		zap.Uint64("to", latest),
		zap.Int("events", len(merged)),
	)
	return merged, nil
}

// Tag labels ledger events with their category.
func Tag(kind model.EventKind, events []model.LedgerEvent) []model.HistoryEvent {
	out := make([]model.HistoryEvent, 0, len(events))
	for _, event := range events {
		out = append(out, model.HistoryEvent{
			Kind:        kind,
			LedgerOrder: event.LedgerOrder,
			Payload:     event.Payload,
		})
	}
	return out
}

// Merge concatenates batches and sorts them by descending ledger order.
// Equal orders keep batch order, then emission order within a batch.
func Merge(batches ...[]model.HistoryEvent) []model.HistoryEvent {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	merged := make([]model.HistoryEvent, 0, total)
	for _, batch := range batches {
		merged = append(merged, batch...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LedgerOrder > merged[j].LedgerOrder
	})
	return merged
}
