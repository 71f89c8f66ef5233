package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sightline-lab/project-sightline/internal/core/session"
	"github.com/sightline-lab/project-sightline/internal/core/storage"
)

type recordKey struct {
	customerID       string
	sessionTimestamp int64
}

// Store is an in-memory implementation of storage.RecordStore.
// Useful for testing and development.
type Store struct {
	mu      sync.RWMutex
	records map[recordKey]session.Record
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{
		records: make(map[recordKey]session.Record),
	}
}

func (s *Store) SaveRecord(ctx context.Context, rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{customerID: rec.CustomerID, sessionTimestamp: rec.SessionTimestamp}
	if _, exists := s.records[key]; exists {
		return storage.ErrDuplicate
	}

	// Store a copy to keep persisted records immutable.
	s.records[key] = *rec
	return nil
}

func (s *Store) SessionsForCustomer(ctx context.Context, customerID string) ([]session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []session.Record{}
	for key, rec := range s.records {
		if key.customerID == customerID {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SessionTimestamp < result[j].SessionTimestamp
	})
	return result, nil
}

func (s *Store) ScanRecords(ctx context.Context, limit int) ([]session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Deterministic iteration keeps repeated scans of an unchanged store
	// identical, matching the real adapter's stable scan plan.
	keys := make([]recordKey, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].customerID != keys[j].customerID {
			return keys[i].customerID < keys[j].customerID
		}
		return keys[i].sessionTimestamp < keys[j].sessionTimestamp
	})

	result := []session.Record{}
	for _, key := range keys {
		if len(result) >= limit {
			break
		}
		result = append(result, s.records[key])
	}
	return result, nil
}
