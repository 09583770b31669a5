package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"landScope/internal/model"
	"landScope/internal/poll"
)

// Sink receives every published history, e.g. a snapshot file or database.
type Sink interface {
	ReplaceHistory(ctx context.Context, events []model.HistoryEvent) error
}

// Poller keeps the last successfully collected history.
type Poller struct {
	agg    *Aggregator
	sinks  []Sink
	logger *zap.Logger

	mu      sync.RWMutex
	history []model.HistoryEvent
}

func NewPoller(agg *Aggregator, logger *zap.Logger, sinks ...Sink) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		agg:     agg,
		sinks:   sinks,
		logger:  logger,
		history: []model.HistoryEvent{},
	}
}

// Refresh runs one collect cycle. A failed or cancelled cycle leaves the
// current history untouched.
func (p *Poller) Refresh(ctx context.Context) error {
	events, err := p.agg.Collect(ctx)
	if err != nil {
		return err
	}
	if !p.publish(ctx, events) {
		return ctx.Err()
	}

	for _, sink := range p.sinks {
		if err := sink.ReplaceHistory(ctx, events); err != nil {
			p.logger.Warn("history sink failed", zap.Error(err))
		}
	}
	return nil
}

func (p *Poller) publish(ctx context.Context, events []model.HistoryEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ctx.Err() != nil {
		p.logger.Debug("discard cancelled cycle", zap.Int("events", len(events)))
		return false
	}
	p.history = events
	return true
}

// Current returns the last published history, most recent first.
func (p *Poller) Current() []model.HistoryEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.HistoryEvent, len(p.history))
	copy(out, p.history)
	return out
}

// Start polls on interval until the returned task is stopped or ctx ends.
func (p *Poller) Start(ctx context.Context, interval time.Duration) *poll.Task {
	return poll.Start(ctx, "history", interval, p.Refresh, p.logger)
}
