package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in an in-process map with optimistic
// locking. Suitable for a single instance and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Record
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Record),
	}
}

// Create implements Store
func (s *MemoryStore) Create(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Version = 1

	stored := *rec
	s.sessions[rec.ID] = &stored
	return nil
}

// Get implements Store. Returns nil when the session is not found.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.sessions[id]
	if !exists {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

// Update implements Store with optimistic locking
func (s *MemoryStore) Update(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.sessions[rec.ID]
	if !exists {
		return ErrNotFound
	}
	if stored.Version != rec.Version {
		return ErrVersionConflict
	}

	rec.Version++
	rec.UpdatedAt = time.Now()

	copied := *rec
	s.sessions[rec.ID] = &copied
	return nil
}

// Delete implements Store
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}
