package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"landScope/internal/model"
	"landScope/internal/record"
)

const maxLineSize = 1 << 20

// JsonlStorage keeps a record export as one JSON object per line.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// Path returns the export file path.
func (s *JsonlStorage) Path() string {
	return s.path
}

// ReplaceRecords rewrites the export with records. The previous file stays
// in place until the new one is complete.
func (s *JsonlStorage) ReplaceRecords(ctx context.Context, records []model.LandRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := bufio.NewWriter(&buf)
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", rec.ID, err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path, buf.Bytes())
}

// AllRecords reads the export back as named raw records. Blank lines are
// skipped; a line that is not a JSON object fails the whole read.
func (s *JsonlStorage) AllRecords(ctx context.Context) ([]record.Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open records file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	raws := make([]record.Raw, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		decoder := json.NewDecoder(bytes.NewReader(line))
		decoder.UseNumber()
		fields := make(map[string]interface{})
		if err := decoder.Decode(&fields); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNo, err)
		}
		raws = append(raws, record.Named(fields))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	return raws, nil
}
