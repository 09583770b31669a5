package history

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"landScope/internal/model"
)

type fakeSource struct {
	mu      sync.Mutex
	latest  uint64
	events  map[model.EventKind][]model.LedgerEvent
	failFor model.EventKind
	calls   []fetchCall
}

type fetchCall struct {
	kind     model.EventKind
	from, to uint64
}

func (f *fakeSource) LatestBlockNumber(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, nil
}

func (f *fakeSource) EventsByCategory(ctx context.Context, kind model.EventKind, from, to uint64) ([]model.LedgerEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{kind: kind, from: from, to: to})
	if kind == f.failFor {
		return nil, errors.New("ledger unavailable")
	}
	return f.events[kind], nil
}

func ledgerEvents(orders ...uint64) []model.LedgerEvent {
	out := make([]model.LedgerEvent, 0, len(orders))
	for _, order := range orders {
		out = append(out, model.LedgerEvent{LedgerOrder: order, Payload: map[string]string{}})
	}
	return out
}

type tagged struct {
	Order uint64
	Kind  model.EventKind
}

func flatten(events []model.HistoryEvent) []tagged {
	out := make([]tagged, 0, len(events))
	for _, e := range events {
		out = append(out, tagged{Order: e.LedgerOrder, Kind: e.Kind})
	}
	return out
}

func TestCollectMergesDescendingWithTieBreak(t *testing.T) {
	source := &fakeSource{
		latest: 10,
		events: map[model.EventKind][]model.LedgerEvent{
			model.LandRegistered:       ledgerEvents(5, 2),
			model.OwnershipTransferred: ledgerEvents(5, 1),
		},
	}

	got, err := NewAggregator(source, 0, nil).Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := []tagged{
		{5, model.LandRegistered},
		{5, model.OwnershipTransferred},
		{2, model.LandRegistered},
		{1, model.OwnershipTransferred},
	}
	if !reflect.DeepEqual(flatten(got), want) {
		t.Fatalf("merge order mismatch: %+v != %+v", flatten(got), want)
	}
}

func TestCollectUsesSameRangeForAllCategories(t *testing.T) {
	source := &fakeSource{latest: 42, events: map[model.EventKind][]model.LedgerEvent{}}

	if _, err := NewAggregator(source, 7, nil).Collect(context.Background()); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(source.calls) != 2 {
		t.Fatalf("expected one fetch per category, got %d", len(source.calls))
	}
	for _, call := range source.calls {
		if call.from != 7 || call.to != 42 {
			t.Fatalf("unexpected range: %+v", call)
		}
	}
}

func TestCollectFailsWhenAnyCategoryFails(t *testing.T) {
	source := &fakeSource{
		latest:  10,
		events:  map[model.EventKind][]model.LedgerEvent{model.LandRegistered: ledgerEvents(3)},
		failFor: model.OwnershipTransferred,
	}

	got, err := NewAggregator(source, 0, nil).Collect(context.Background())
	if err == nil {
		t.Fatalf("expected error, got %+v", got)
	}
	if got != nil {
		t.Fatalf("partial merge must not be returned")
	}
}

func TestCollectFromBeyondLatest(t *testing.T) {
	source := &fakeSource{latest: 3}
	got, err := NewAggregator(source, 10, nil).Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 0 || len(source.calls) != 0 {
		t.Fatalf("expected empty history without fetches")
	}
}

func TestMergeKeepsEmissionOrderWithinCategory(t *testing.T) {
	a := Tag(model.LandRegistered, []model.LedgerEvent{
		{LedgerOrder: 4, Payload: map[string]string{"id": "1"}},
		{LedgerOrder: 4, Payload: map[string]string{"id": "2"}},
	})
	b := Tag(model.OwnershipTransferred, []model.LedgerEvent{
		{LedgerOrder: 4, Payload: map[string]string{"id": "3"}},
	})

	got := Merge(a, b)
	ids := []string{got[0].Payload["id"], got[1].Payload["id"], got[2].Payload["id"]}
	if !reflect.DeepEqual(ids, []string{"1", "2", "3"}) {
		t.Fatalf("unexpected tie order: %v", ids)
	}
}
