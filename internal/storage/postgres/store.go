package postgres

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"landScope/internal/model"
	"landScope/internal/record"
	"landScope/internal/storage"
)

var (
	_ storage.RecordSink  = (*Store)(nil)
	_ storage.HistorySink = (*Store)(nil)
	_ record.Source       = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS land_records (
	id            BIGINT PRIMARY KEY,
	location      TEXT NOT NULL,
	area          BIGINT NOT NULL,
	survey_number TEXT NOT NULL,
	owner         TEXT NOT NULL,
	price         NUMERIC(78, 0) NOT NULL,
	is_verified   BOOLEAN NOT NULL,
	document_hash TEXT NOT NULL DEFAULT '',
	image_hash    TEXT NOT NULL DEFAULT '',
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS land_history (
	position     INTEGER PRIMARY KEY,
	kind         TEXT NOT NULL,
	ledger_order BIGINT NOT NULL,
	payload      JSONB NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store persists the record set and history feed in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ReplaceRecords swaps the stored record set for records in one transaction.
// Records with an id or area beyond BIGINT are rejected before anything is
// deleted.
func (s *Store) ReplaceRecords(ctx context.Context, records []model.LandRecord) error {
	for _, rec := range records {
		if err := checkBigint("record id", rec.ID); err != nil {
			return err
		}
		if err := checkBigint(fmt.Sprintf("record %d area", rec.ID), rec.Area); err != nil {
			return err
		}
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM land_records`); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(`
				INSERT INTO land_records (
					id, location, area, survey_number, owner, price, is_verified, document_hash, image_hash, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, now())
			`,
				int64(rec.ID),
				rec.Location,
				int64(rec.Area),
				rec.SurveyNumber,
				rec.Owner,
				priceText(rec.Price),
				rec.IsVerified,
				rec.DocumentHash,
				rec.ImageHash,
			)
		}
		return execBatch(ctx, tx, batch, len(records))
	})
}

// ReplaceHistory swaps the stored history feed for events in one
// transaction, keeping the feed order in position.
func (s *Store) ReplaceHistory(ctx context.Context, events []model.HistoryEvent) error {
	for _, event := range events {
		if err := checkBigint("ledger order", event.LedgerOrder); err != nil {
			return err
		}
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM land_history`); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, event := range events {
			payload := event.Payload
			if payload == nil {
				payload = map[string]string{}
			}
			batch.Queue(`
				INSERT INTO land_history (position, kind, ledger_order, payload, updated_at)
				VALUES ($1, $2, $3, $4, now())
			`,
				i,
				string(event.Kind),
				int64(event.LedgerOrder),
				payload,
			)
		}
		return execBatch(ctx, tx, batch, len(events))
	})
}

// AllRecords loads the stored record set as named raw records, ordered by id.
func (s *Store) AllRecords(ctx context.Context) ([]record.Raw, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, location, area, survey_number, owner, price::text, is_verified, document_hash, image_hash
		FROM land_records
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	raws := make([]record.Raw, 0)
	for rows.Next() {
		var (
			id, area                             int64
			location, surveyNumber, owner, price string
			isVerified                           bool
			documentHash, imageHash              string
		)
		if err := rows.Scan(&id, &location, &area, &surveyNumber, &owner, &price, &isVerified, &documentHash, &imageHash); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		raws = append(raws, record.Named(map[string]interface{}{
			record.FieldID:           id,
			record.FieldLocation:     location,
			record.FieldArea:         area,
			record.FieldSurveyNumber: surveyNumber,
			record.FieldOwner:        owner,
			record.FieldPrice:        price,
			record.FieldIsVerified:   isVerified,
			record.FieldDocumentHash: documentHash,
			record.FieldImageHash:    imageHash,
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return raws, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, count int) error {
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < count; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch insert %d: %w", i, err)
		}
	}
	return br.Close()
}

// checkBigint rejects values that would wrap negative in a BIGINT column.
func checkBigint(name string, value uint64) error {
	if value > math.MaxInt64 {
		return fmt.Errorf("%s %d exceeds bigint range", name, value)
	}
	return nil
}

func priceText(price *big.Int) string {
	if price == nil {
		return "0"
	}
	return price.String()
}
