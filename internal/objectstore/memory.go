package objectstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
// Useful for testing and development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory object store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

func (s *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, exists := s.objects[objectID(bucket, key)]
	if !exists {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external modification.
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, bucket, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	s.objects[objectID(bucket, key)] = stored
	return nil
}
