package history

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"landScope/internal/model"
)

type recordingSink struct {
	mu    sync.Mutex
	calls [][]model.HistoryEvent
	err   error
}

func (s *recordingSink) ReplaceHistory(ctx context.Context, events []model.HistoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, events)
	return s.err
}

func TestPollerFailedCycleKeepsHistory(t *testing.T) {
	source := &fakeSource{
		latest: 10,
		events: map[model.EventKind][]model.LedgerEvent{
			model.LandRegistered:       ledgerEvents(5, 2),
			model.OwnershipTransferred: ledgerEvents(5, 1),
		},
	}
	poller := NewPoller(NewAggregator(source, 0, nil), nil)

	if err := poller.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	first := poller.Current()
	if len(first) != 4 {
		t.Fatalf("unexpected history: %+v", first)
	}

	source.failFor = model.OwnershipTransferred
	if err := poller.Refresh(context.Background()); err == nil {
		t.Fatalf("expected second refresh to fail")
	}
	if !reflect.DeepEqual(poller.Current(), first) {
		t.Fatalf("failed cycle changed history")
	}
}

func TestPollerSinkFailureDoesNotAffectHistory(t *testing.T) {
	source := &fakeSource{latest: 1, events: map[model.EventKind][]model.LedgerEvent{model.LandRegistered: ledgerEvents(1)}}
	sink := &recordingSink{err: errors.New("disk full")}
	poller := NewPoller(NewAggregator(source, 0, nil), nil, sink)

	if err := poller.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(poller.Current()) != 1 || len(sink.calls) != 1 {
		t.Fatalf("expected published history and one sink call")
	}
}

type gatedSource struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSource) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return 9, nil
}

func (g *gatedSource) EventsByCategory(ctx context.Context, kind model.EventKind, from, to uint64) ([]model.LedgerEvent, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return ledgerEvents(9), nil
}

func TestPollerDiscardsCycleCancelledInFlight(t *testing.T) {
	source := &gatedSource{entered: make(chan struct{}), release: make(chan struct{})}
	sink := &recordingSink{}
	poller := NewPoller(NewAggregator(source, 0, nil), nil, sink)

	ctx, cancel := context.WithCancel(context.Background())
	task := poller.Start(ctx, time.Hour)

	select {
	case <-source.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("cycle did not start")
	}

	cancel()
	close(source.release)
	task.Stop()

	if got := poller.Current(); len(got) != 0 {
		t.Fatalf("cancelled cycle was published: %+v", got)
	}
	if len(sink.calls) != 0 {
		t.Fatalf("cancelled cycle reached sinks")
	}
}

func TestPollerStopFreezesHistory(t *testing.T) {
	source := &fakeSource{latest: 1, events: map[model.EventKind][]model.LedgerEvent{model.LandRegistered: ledgerEvents(1)}}
	poller := NewPoller(NewAggregator(source, 0, nil), nil)

	task := poller.Start(context.Background(), time.Millisecond)
	deadline := time.After(2 * time.Second)
	for len(poller.Current()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("history was never published")
		case <-time.After(time.Millisecond):
		}
	}
	task.Stop()

	before := poller.Current()
	source.mu.Lock()
	source.latest = 2
	source.events[model.LandRegistered] = ledgerEvents(2, 1)
	source.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	if !reflect.DeepEqual(poller.Current(), before) {
		t.Fatalf("history changed after Stop")
	}
}
