package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"landScope/internal/config"
	"landScope/internal/model"
	"landScope/internal/money"
	"landScope/internal/query"
)

func TestNewRecordView(t *testing.T) {
	price, _ := new(big.Int).SetString("1500000000000000000", 10)
	view := newRecordView(model.LandRecord{
		ID:           3,
		Location:     "Pune",
		Area:         900,
		SurveyNumber: "SN-3",
		Owner:        "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		Price:        price,
		DocumentHash: "QmDoc",
	}, "0x71c7656ec7ab88b098defb751b7401b5f6d8976f")

	if view.Price != "1.5" || view.PriceBaseUnits != "1500000000000000000" {
		t.Fatalf("price mismatch: %+v", view)
	}
	if view.OwnerShort != "0x71C7...976F" {
		t.Fatalf("owner short mismatch: %s", view.OwnerShort)
	}
	if !view.Mine {
		t.Fatalf("expected record to be marked as mine")
	}
}

func TestNewHistoryViewDoesNotMutatePayload(t *testing.T) {
	event := model.HistoryEvent{
		Kind:        model.LandRegistered,
		LedgerOrder: 12,
		Payload: map[string]string{
			"owner": "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
			"price": "2000000000000000000",
		},
	}
	view := newHistoryView(event)
	if view.Payload["priceEth"] != "2.0" {
		t.Fatalf("price display mismatch: %s", view.Payload["priceEth"])
	}
	if view.Payload["ownerShort"] != "0x71C7...976F" {
		t.Fatalf("owner display mismatch: %s", view.Payload["ownerShort"])
	}
	if _, ok := event.Payload["priceEth"]; ok {
		t.Fatalf("source payload was mutated")
	}
}

func TestWriteHistoryLines(t *testing.T) {
	var buf bytes.Buffer
	events := []model.HistoryEvent{
		{Kind: model.OwnershipTransferred, LedgerOrder: 5},
		{Kind: model.LandRegistered, LedgerOrder: 2},
	}
	if err := writeHistory(&buf, events); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var first historyView
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Kind != model.OwnershipTransferred || first.LedgerOrder != 5 {
		t.Fatalf("first line mismatch: %+v", first)
	}
}

func TestBuildCriteria(t *testing.T) {
	criteria, err := buildCriteria(config.SearchConfig{Field: "survey-number", Value: "SN"})
	if err != nil {
		t.Fatalf("simple: %v", err)
	}
	if simple, ok := criteria.(query.Simple); !ok || simple.Field != query.FieldSurveyNumber {
		t.Fatalf("simple criteria mismatch: %#v", criteria)
	}

	criteria, err = buildCriteria(config.SearchConfig{Advanced: true, Area: "1000", Documents: "yes"})
	if err != nil {
		t.Fatalf("advanced: %v", err)
	}
	advanced, ok := criteria.(query.Advanced)
	if !ok || advanced.AreaApprox == nil || *advanced.AreaApprox != 1000 || advanced.Documents != query.DocumentsYes {
		t.Fatalf("advanced criteria mismatch: %#v", criteria)
	}

	if _, err := buildCriteria(config.SearchConfig{Field: "owner"}); !errors.Is(err, query.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := buildCriteria(config.SearchConfig{Advanced: true, Area: "abc"}); !errors.Is(err, query.ErrInvalidArea) {
		t.Fatalf("expected ErrInvalidArea, got %v", err)
	}
}

func TestBuildCriteriaRejectsBadInputBeforeLoading(t *testing.T) {
	if _, err := buildCriteria(config.SearchConfig{Field: "location", Value: "   "}); !errors.Is(err, query.ErrEmptyCriteria) {
		t.Fatalf("expected ErrEmptyCriteria, got %v", err)
	}
	if _, err := buildCriteria(config.SearchConfig{Field: "price"}); !errors.Is(err, query.ErrEmptyCriteria) {
		t.Fatalf("expected ErrEmptyCriteria for missing value, got %v", err)
	}
	if _, err := buildCriteria(config.SearchConfig{Advanced: true, PriceMin: "abc"}); !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for price min, got %v", err)
	}
	if _, err := buildCriteria(config.SearchConfig{Advanced: true, PriceMax: "1.0000000000000000000"}); !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for price max, got %v", err)
	}
}

func TestRunSearchRejectsBlankValueWithoutLedger(t *testing.T) {
	cmd := &cobra.Command{Use: "search", RunE: runSearch}
	cmd.Flags().String("config", "", "")
	addLedgerFlags(cmd.Flags(), 5)
	cmd.Flags().String("in", "", "")
	cmd.Flags().String("pg-dsn", "", "")
	cmd.Flags().String("field", "location", "")
	cmd.Flags().String("value", "", "")
	cmd.Flags().Bool("advanced", false, "")
	cmd.Flags().String("documents", "any", "")
	// An unreachable endpoint: any ledger call would fail with a connection error.
	cmd.SetArgs([]string{"--rpc", "http://127.0.0.1:1", "--contract", "0x1111111111111111111111111111111111111111", "--value", "   ", "--log-level", "error"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if !errors.Is(err, query.ErrEmptyCriteria) {
		t.Fatalf("expected ErrEmptyCriteria, got %v", err)
	}
}
