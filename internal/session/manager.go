// Package session caches the latest extraction of the watched log file.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/selfheal/recovery-graph/internal/models"
)

// Extractor is the subset of parser.Extractor the store needs.
type Extractor interface {
	ExtractFile(path string) (*models.Extraction, error)
}

// Snapshot is one extraction of the log file at a given size and mtime.
type Snapshot struct {
	ID         string             `json:"id"`
	LoadedAt   time.Time          `json:"loadedAt"`
	ModTime    time.Time          `json:"modTime"`
	Size       int64              `json:"size"`
	Extraction *models.Extraction `json:"-"`
}

// Store re-extracts the log file whenever it changes on disk and otherwise
// serves the cached snapshot.
type Store struct {
	path      string
	extractor Extractor
	now       func() time.Time

	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates a store for the log file at path.
func NewStore(path string, extractor Extractor) *Store {
	return &Store{path: path, extractor: extractor, now: time.Now}
}

// Path returns the watched log file.
func (s *Store) Path() string {
	return s.path
}

// Current returns the snapshot for the file's present state, extracting it
// again if size or modification time moved since the last call.
func (s *Store) Current(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if fresh(cur, info) {
		return cur, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another request may have refreshed it while we waited
	if fresh(s.current, info) {
		return s.current, nil
	}

	ext, err := s.extractor.ExtractFile(s.path)
	if err != nil {
		return nil, err
	}
	s.current = &Snapshot{
		ID:         uuid.NewString(),
		LoadedAt:   s.now(),
		ModTime:    info.ModTime(),
		Size:       info.Size(),
		Extraction: ext,
	}
	return s.current, nil
}

func fresh(snap *Snapshot, info os.FileInfo) bool {
	return snap != nil && snap.Size == info.Size() && snap.ModTime.Equal(info.ModTime())
}
