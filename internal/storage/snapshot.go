package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"landScope/internal/model"
)

// HistorySnapshot is the on-disk form of a published history feed.
type HistorySnapshot struct {
	UpdatedAt string               `json:"updated_at"`
	Events    []model.HistoryEvent `json:"events"`
}

// SnapshotStore persists the latest history feed to a JSON file.
type SnapshotStore struct {
	path string
	now  func() time.Time
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path, now: time.Now}
}

// ReplaceHistory overwrites the snapshot with events.
func (s *SnapshotStore) ReplaceHistory(ctx context.Context, events []model.HistoryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if events == nil {
		events = []model.HistoryEvent{}
	}

	data, err := json.Marshal(HistorySnapshot{
		UpdatedAt: s.now().UTC().Format(time.RFC3339Nano),
		Events:    events,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Load returns the stored snapshot. ok is false when no snapshot exists yet.
func (s *SnapshotStore) Load() (HistorySnapshot, bool, error) {
	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return HistorySnapshot{}, false, nil
		}
		return HistorySnapshot{}, false, fmt.Errorf("stat snapshot: %w", err)
	}
	if stat.IsDir() {
		return HistorySnapshot{}, false, fmt.Errorf("snapshot path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return HistorySnapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot HistorySnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return HistorySnapshot{}, false, fmt.Errorf("parse snapshot: %w", err)
	}
	return snapshot, true, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return nil
}
