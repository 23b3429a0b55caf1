package results

import (
	"slices"
	"sync"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// Store is the in-memory result list. Records are only ever appended; nothing
// is merged or deduplicated across passes.
type Store struct {
	mu      sync.RWMutex
	records []*entity.Record
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Append(recs ...*entity.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		if r != nil {
			s.records = append(s.records, r)
		}
	}
}

// List returns a snapshot of the records in append order.
func (s *Store) List() []*entity.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Get finds a record by id.
func (s *Store) Get(id string) (*entity.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Clear drops every record and reports how many there were.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records)
	s.records = nil
	return n
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
