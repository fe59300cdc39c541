package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]map[uint64]domain.Record
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[uint64]domain.Record),
	}
}

// Save keeps the record in memory. Records are values over immutable tapes
// and definitions, so storing the value is enough to isolate it from the caller.
func (s *Store) Save(ctx context.Context, runID string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.data[runID]
	if !ok {
		run = make(map[uint64]domain.Record)
		s.data[runID] = run
	}
	run[rec.Index] = rec
	return nil
}

// Load retrieves one record.
func (s *Store) Load(ctx context.Context, runID string, index uint64) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[runID][index]
	if !ok {
		return domain.Record{}, domain.ErrResultNotFound
	}
	return rec, nil
}

// List returns the records of a run ordered by index.
func (s *Store) List(ctx context.Context, runID string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.data[runID]
	recs := make([]domain.Record, 0, len(run))
	for _, rec := range run {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b domain.Record) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})
	return recs, nil
}

// Runs returns the stored run IDs.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	slices.Sort(runs)
	return runs, nil
}

// Delete removes a run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}
