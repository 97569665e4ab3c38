// Package memory keeps the ledger in process memory, for tests and for
// running without any configured persistence.
package memory

import (
	"context"
	"sync"

	"khazana/internal/core"
)

type Store struct {
	mu      sync.Mutex
	records []core.Record
	author  string
}

func New() *Store {
	return &Store{}
}

// Seed returns a store preloaded with records, oldest last.
func Seed(records []core.Record) *Store {
	return &Store{records: append([]core.Record(nil), records...)}
}

func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Save(_ context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records[:0:0], records...)
	return nil
}

func (s *Store) LoadAuthor(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.author, nil
}

func (s *Store) SaveAuthor(_ context.Context, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.author = author
	return nil
}
