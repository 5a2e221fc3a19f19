package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/shandysiswandi/vendasload/internal/pkg/pkgerror"
)

// InMemory is an object store kept in process memory, used for local runs and
// tests.
type InMemory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{
		objects: make(map[string][]byte),
	}
}

// Put stores a copy of content under bucket/name.
func (m *InMemory) Put(bucket, name string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key(bucket, name)] = append([]byte(nil), content...)
}

func (m *InMemory) Fetch(ctx context.Context, bucket, name string) ([]byte, error) {
	m.mu.RLock()
	content, ok := m.objects[key(bucket, name)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("mem://%s/%s: %w", bucket, name, pkgerror.ErrNotFound)
	}

	return append([]byte(nil), content...), nil
}

func key(bucket, name string) string {
	return bucket + "/" + name
}
