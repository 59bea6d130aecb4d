// Package memory is the in-process repository.Store used by default and in tests
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/honeycarbs/plugplayers/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type key struct {
	kind repository.Kind
	id   string
}

// Store keeps records in a map guarded by a RWMutex. Safe for concurrent use
type Store struct {
	mu   sync.RWMutex
	data map[key]repository.Record
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: make(map[key]repository.Record)}
}

// Get returns a copy of the stored record
func (s *Store) Get(_ context.Context, kind repository.Kind, id string) (repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[key{kind, id}]
	if !ok {
		return repository.Record{}, repository.ErrNotFound
	}
	return clone(rec), nil
}

// Create inserts rec at version 1
func (s *Store) Create(_ context.Context, rec repository.Record) (repository.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{rec.Kind, rec.ID}
	if _, ok := s.data[k]; ok {
		return repository.Record{}, repository.ErrConflict
	}
	rec.Version = 1
	s.data[k] = clone(rec)
	return rec, nil
}

// Update swaps the record when the stored version matches expected
func (s *Store) Update(_ context.Context, rec repository.Record, expected int64) (repository.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{rec.Kind, rec.ID}
	cur, ok := s.data[k]
	if !ok {
		return repository.Record{}, repository.ErrNotFound
	}
	if cur.Version != expected {
		return repository.Record{}, repository.ErrVersionConflict
	}
	rec.Version = expected + 1
	s.data[k] = clone(rec)
	return rec, nil
}

// List returns every record of kind sorted by id
func (s *Store) List(_ context.Context, kind repository.Kind) ([]repository.Record, error) {
	s.mu.RLock()
	out := make([]repository.Record, 0)
	for k, rec := range s.data {
		if k.kind == kind {
			out = append(out, clone(rec))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

func clone(rec repository.Record) repository.Record {
	rec.Data = append([]byte(nil), rec.Data...)
	return rec
}
