package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"landScope/internal/address"
	"landScope/internal/model"
	"landScope/internal/money"
)

type jsonlWriter struct {
	writer *bufio.Writer
}

func newJSONLWriter(w io.Writer) *jsonlWriter {
	return &jsonlWriter{writer: bufio.NewWriter(w)}
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Flush() error {
	return w.writer.Flush()
}

// recordView is the printed form of a land record.
type recordView struct {
	ID             uint64 `json:"id"`
	Location       string `json:"location"`
	Area           uint64 `json:"area"`
	SurveyNumber   string `json:"surveyNumber"`
	Owner          string `json:"owner"`
	OwnerShort     string `json:"ownerShort"`
	Price          string `json:"price"`
	PriceBaseUnits string `json:"priceBaseUnits"`
	IsVerified     bool   `json:"isVerified"`
	Mine           bool   `json:"mine,omitempty"`
	DocumentHash   string `json:"documentHash,omitempty"`
	ImageHash      string `json:"imageHash,omitempty"`
}

func newRecordView(record model.LandRecord, account string) recordView {
	baseUnits := "0"
	if record.Price != nil {
		baseUnits = record.Price.String()
	}
	return recordView{
		ID:             record.ID,
		Location:       record.Location,
		Area:           record.Area,
		SurveyNumber:   record.SurveyNumber,
		Owner:          record.Owner,
		OwnerShort:     address.Shorten(record.Owner),
		Price:          money.ToDecimalString(record.Price),
		PriceBaseUnits: baseUnits,
		IsVerified:     record.IsVerified,
		Mine:           address.IsOwner(record.Owner, account),
		DocumentHash:   record.DocumentHash,
		ImageHash:      record.ImageHash,
	}
}

// historyView is the printed form of a history entry. Amounts and
// addresses in the payload are rendered for display.
type historyView struct {
	Kind        model.EventKind   `json:"kind"`
	LedgerOrder uint64            `json:"ledgerOrder"`
	Payload     map[string]string `json:"payload"`
}

var addressPayloadKeys = []string{"owner", "previousOwner", "newOwner"}

func newHistoryView(event model.HistoryEvent) historyView {
	payload := make(map[string]string, len(event.Payload)+len(addressPayloadKeys)+1)
	for key, value := range event.Payload {
		payload[key] = value
	}
	if price, ok := payload["price"]; ok {
		payload["priceEth"] = money.FormatBaseUnits(price)
	}
	for _, key := range addressPayloadKeys {
		if value, ok := payload[key]; ok {
			payload[key+"Short"] = address.Shorten(value)
		}
	}
	return historyView{
		Kind:        event.Kind,
		LedgerOrder: event.LedgerOrder,
		Payload:     payload,
	}
}

func writeRecords(w io.Writer, records []model.LandRecord, account string) error {
	out := newJSONLWriter(w)
	for _, record := range records {
		if err := out.Write(newRecordView(record, account)); err != nil {
			return err
		}
	}
	return out.Flush()
}

func writeHistory(w io.Writer, events []model.HistoryEvent) error {
	out := newJSONLWriter(w)
	for _, event := range events {
		if err := out.Write(newHistoryView(event)); err != nil {
			return err
		}
	}
	return out.Flush()
}
