package metadata

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps metadata for the lifetime of the process. Cloud mode
// uses it for the session since there is no on-device database.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.data[key]; ok {
		return slices.Clone(v), nil
	}
	return nil, nil
}

func (r *MemoryRepository) SetMany(_ context.Context, values map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		r.data[k] = slices.Clone(v)
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.data, k)
	}
	return nil
}

func (r *MemoryRepository) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
