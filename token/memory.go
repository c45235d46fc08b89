package token

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// MemoryStore is the in-memory token registry.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore using the given clock for
// expiry checks.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clock,
		records: make(map[string]Record),
	}
}

// Save inserts or replaces the record under its ID.
func (s *MemoryStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Permissions = append([]string(nil), rec.Permissions...)
	s.records[rec.ID] = rec
	return nil
}

// Get returns the live record for id, evicting it if expired.
func (s *MemoryStore) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.liveLocked(id)
	if err != nil {
		return Record{}, err
	}
	rec.Permissions = append([]string(nil), rec.Permissions...)
	return rec, nil
}

// Touch refreshes the record's last-access stamp without touching expiry.
func (s *MemoryStore) Touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.liveLocked(id)
	if err != nil {
		return err
	}
	rec.LastAccess = s.clock.Now()
	s.records[id] = rec
	return nil
}

// Delete removes the record regardless of expiry state, returning it.
func (s *MemoryStore) Delete(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	delete(s.records, id)
	return rec, nil
}

// Purge removes every record.
func (s *MemoryStore) Purge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]Record)
	return nil
}

// Len returns the number of resident records, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// liveLocked is the single expiry check shared by every read path.
func (s *MemoryStore) liveLocked(id string) (Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if s.clock.Now().After(rec.ExpiresAt) {
		delete(s.records, id)
		return Record{}, ErrExpired
	}
	return rec, nil
}
