package report

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gosurv/domain/core"
	"gosurv/domain/survival"
)

// Store keeps finished batches in memory so the report server can render
// them without a database. It satisfies the API server's SweepStore.
type Store struct {
	mu     sync.RWMutex
	byID   map[core.SweepID]*survival.BatchResult
	latest *survival.BatchResult
}

// NewStore creates an empty in-memory sweep store.
func NewStore() *Store {
	return &Store{byID: make(map[core.SweepID]*survival.BatchResult)}
}

// SaveBatch records a finished batch as the latest.
func (s *Store) SaveBatch(_ context.Context, batch *survival.BatchResult) error {
	if batch == nil {
		return fmt.Errorf("cannot store nil batch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[batch.SweepID] = batch
	s.latest = batch
	return nil
}

// GetBatch returns a stored batch by sweep ID.
func (s *Store) GetBatch(_ context.Context, id core.SweepID) (*survival.BatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batch, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSweepNotFound, id)
	}
	return batch, nil
}

// Latest returns the most recently stored batch, nil when none exists.
func (s *Store) Latest() *survival.BatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// ListSweeps returns summaries of all stored batches, newest first.
func (s *Store) ListSweeps(_ context.Context) ([]survival.SweepSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]survival.SweepSummary, 0, len(s.byID))
	for _, batch := range s.byID {
		summaries = append(summaries, batch.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].StartedAt.Equal(summaries[j].StartedAt) {
			return summaries[i].StartedAt.After(summaries[j].StartedAt)
		}
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}
