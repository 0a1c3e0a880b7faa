package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
)

// QueueSchemaVersion is the layout version written by both queue backends.
const QueueSchemaVersion = 1

type persistedQueue struct {
	Version    int                      `json:"version"`
	Operations []models.QueuedOperation `json:"operations"`
}

// fileQueueStore keeps the queue as one JSON blob. Saves go to a temp file in
// the same directory which is synced and renamed over the target, so a crash
// leaves either the old or the new blob.
type fileQueueStore struct {
	path string

	mu     sync.Mutex
	logger *logger.Logger
}

// NewFileQueueStore returns a [QueueStore] backed by the JSON file at path.
// The parent directory is created if missing.
func NewFileQueueStore(path string, logger *logger.Logger) (QueueStore, error) {
	if path == "" {
		return nil, errors.New("empty queue file path")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create queue directory: %w", err)
		}
	}

	return &fileQueueStore{path: path, logger: logger}, nil
}

func (s *fileQueueStore) Load(ctx context.Context) ([]models.QueuedOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.QueuedOperation{}, nil
		}
		// an unreadable file may still hold operations; it is left in place
		return nil, fmt.Errorf("read queue file: %w", err)
	}

	var blob persistedQueue
	if err = json.Unmarshal(data, &blob); err != nil {
		s.quarantine("corrupt")
		return nil, fmt.Errorf("%w: %w", ErrCorruptQueueState, err)
	}

	if blob.Version != QueueSchemaVersion {
		s.quarantine(fmt.Sprintf("v%d", blob.Version))
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIncompatibleQueueVersion, blob.Version, QueueSchemaVersion)
	}

	if blob.Operations == nil {
		blob.Operations = []models.QueuedOperation{}
	}

	return blob.Operations, nil
}

func (s *fileQueueStore) Save(ctx context.Context, ops []models.QueuedOperation) error {
	if ops == nil {
		ops = []models.QueuedOperation{}
	}

	data, err := json.Marshal(persistedQueue{Version: QueueSchemaVersion, Operations: ops})
	if err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFileAtomic(s.path, data)
}

func (s *fileQueueStore) Close() error {
	return nil
}

// quarantine moves an unusable blob aside so the next Save does not destroy
// it. Failures are only logged.
func (s *fileQueueStore) quarantine(reason string) {
	target := fmt.Sprintf("%s.%s-%d", s.path, reason, time.Now().UnixNano())
	if err := os.Rename(s.path, target); err != nil {
		s.logger.Err(err).Str("path", s.path).Msg("failed to move unusable queue file aside")
		return
	}
	s.logger.Warn().Str("path", s.path).Str("moved_to", target).Msg("unusable queue file moved aside")
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp queue file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp queue file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp queue file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp queue file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace queue file: %w", err)
	}

	return nil
}
