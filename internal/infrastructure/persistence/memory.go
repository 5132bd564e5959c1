package persistence

import (
	"context"
	"slices"
	"sync"
)

// MemoryBlobs keeps blobs in process memory. Nothing survives a restart.
type MemoryBlobs struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{
		blobs: make(map[string][]byte),
	}
}

func (m *MemoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, notFound(key)
	}

	return slices.Clone(data), nil
}

func (m *MemoryBlobs) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = slices.Clone(data)

	return nil
}
