// Package cache holds the client-side copies of backend collections. Each
// mutation is tied to a generation counter so a slow response that arrives
// after a newer refresh began can never clobber fresher data.
package cache

import (
	"sync"

	"github.com/ehmtravel/backoffice/internal/entity"
)

type Store struct {
	mu      sync.RWMutex
	records map[entity.Kind][]entity.Record
	gens    map[entity.Kind]uint64
}

func NewStore() *Store {
	return &Store{
		records: make(map[entity.Kind][]entity.Record),
		gens:    make(map[entity.Kind]uint64),
	}
}

// begin claims the next generation for a kind. The matching commit only
// applies while no later generation has been claimed.
func (s *Store) begin(kind entity.Kind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[kind]++
	return s.gens[kind]
}

// commit replaces the collection wholesale, discarding local-only records.
// Returns false when the write lost to a newer generation and was dropped.
func (s *Store) commit(kind entity.Kind, gen uint64, records []entity.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gens[kind] {
		return false
	}
	s.records[kind] = records
	return true
}

// Get returns a copy of the cached collection in insertion order.
func (s *Store) Get(kind entity.Kind) []entity.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.records[kind]
	out := make([]entity.Record, len(records))
	copy(out, records)
	return out
}

func (s *Store) Len(kind entity.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[kind])
}

// Clear drops every collection, e.g. on logout so data cannot leak into
// the next operator's session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[entity.Kind][]entity.Record)
	for kind := range s.gens {
		s.gens[kind]++
	}
}
