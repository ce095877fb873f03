package store

import (
	"context"
	"sync"

	"github.com/dzazaleo/layerforge/pkg/design"
)

// MemoryStore keeps payloads in process memory. Payloads are deep-copied on
// both write and read so callers can never alias the stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[Key]*design.Payload
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[Key]*design.Payload)}
}

// Get returns the stored payload for key, or nil when absent.
func (s *MemoryStore) Get(ctx context.Context, key Key) (*design.Payload, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payloads[key].Clone(), nil
}

// Set stores a payload for key, replacing any prior value.
func (s *MemoryStore) Set(ctx context.Context, key Key, p *design.Payload) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[key] = p.Clone()
	return nil
}

// Delete removes the payload for key. Deleting an absent key is not an
// error.
func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, key)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
