package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
)

// Store keeps replay records in a map guarded by a mutex.
type Store struct {
	mu      sync.Mutex
	records map[idempotency.Fingerprint]idempotency.Record
}

func NewStore() *Store {
	return &Store{records: map[idempotency.Fingerprint]idempotency.Record{}}
}

func cloneRecord(r idempotency.Record) idempotency.Record {
	r.Body = append([]byte(nil), r.Body...)
	return r
}

func (s *Store) Get(_ context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(r), true, nil
}

func (s *Store) Put(_ context.Context, fp idempotency.Fingerprint, r idempotency.Record) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[fp] = cloneRecord(r)
	return nil
}

// DeleteBefore drops records created strictly before cutoff and reports how many went.
func (s *Store) DeleteBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for fp, r := range s.records {
		if r.CreatedAt.Before(cutoff) {
			delete(s.records, fp)
			n++
		}
	}
	return n, nil
}
