package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/liga/internal/domain/week"
	"github.com/okian/liga/pkg/metrics"
)

// FileStore is a mutex-guarded, in-memory Store backed by a single
// flat JSON file. Every save rewrites the whole file through a temp
// file and rename so a crash mid-write cannot leave a torn document.
type FileStore struct {
	mu       sync.RWMutex
	byKey    map[string]storedEntry
	path     string
	fileMode os.FileMode
}

// storedEntry pairs a capture with its revision on disk.
type storedEntry struct {
	Revision string       `json:"revision"`
	Capture  week.Capture `json:"capture"`
}

// NewFileStore constructs a file store with configuration options.
// When a path is configured and the file exists, its contents are
// loaded; a missing file starts the store empty.
func NewFileStore(opts ...Option) (*FileStore, error) {
	s := &FileStore{
		byKey:    make(map[string]storedEntry),
		fileMode: 0o600,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.path != "" {
		if err := s.loadFile(); err != nil {
			return nil, fmt.Errorf("loading store file %s: %w", s.path, err)
		}
	}

	metrics.UpdateStoredWeeks(len(s.byKey))
	return s, nil
}

// Load implements Store.Load.
func (s *FileStore) Load(ctx context.Context, key string) (week.Capture, Revision, error) {
	if key == "" {
		return week.Capture{}, "", ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byKey[key]
	if !ok {
		return week.Capture{}, "", ErrNotFound
	}
	return entry.Capture.Clone(), Revision(entry.Revision), nil
}

// Save implements Store.Save.
func (s *FileStore) Save(ctx context.Context, key string, capture week.Capture, expected Revision) (Revision, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.byKey[key]
	switch {
	case exists && string(expected) != current.Revision:
		metrics.RecordCaptureConflict()
		return "", fmt.Errorf("key %s: %w", key, ErrRevisionConflict)
	case !exists && expected != "":
		metrics.RecordCaptureConflict()
		return "", fmt.Errorf("key %s: %w", key, ErrRevisionConflict)
	}

	next := storedEntry{
		Revision: uuid.NewString(),
		Capture:  capture.Clone(),
	}
	s.byKey[key] = next

	if s.path != "" {
		if err := s.writeFile(); err != nil {
			// Roll back so memory and disk stay in agreement.
			if exists {
				s.byKey[key] = current
			} else {
				delete(s.byKey, key)
			}
			return "", fmt.Errorf("writing store file %s: %w", s.path, err)
		}
	}

	metrics.RecordCaptureSaved()
	metrics.UpdateStoredWeeks(len(s.byKey))
	return Revision(next.Revision), nil
}

// Keys implements Store.Keys.
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.byKey))
	for key := range s.byKey {
		keys = append(keys, key)
	}
	return keys, nil
}

// Count implements Store.Count.
func (s *FileStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// loadFile reads the backing file into memory. Assumes no concurrent use.
func (s *FileStore) loadFile() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	byKey := make(map[string]storedEntry)
	if err := json.Unmarshal(data, &byKey); err != nil {
		return err
	}
	for key, entry := range byKey {
		if entry.Revision == "" {
			// Files written by hand get a revision on first load.
			entry.Revision = uuid.NewString()
		}
		s.byKey[key] = entry
	}
	return nil
}

// writeFile persists the whole store atomically. Assumes the write lock is held.
func (s *FileStore) writeFile() error {
	data, err := json.MarshalIndent(s.byKey, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
