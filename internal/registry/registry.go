// internal/registry/registry.go
package registry

import (
	"context"
	"sync"
)

// Registry tracks claimed display names. Claims are exclusive: a name stays
// taken until the claiming connection releases it.
type Registry interface {
	// Claim reserves name. Returns false if it is already taken.
	Claim(ctx context.Context, name string) (bool, error)
	// Release frees a previously claimed name.
	Release(ctx context.Context, name string) error
}

// MemoryRegistry keeps claimed names in process memory. Suitable for a
// single-instance deployment.
type MemoryRegistry struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewMemoryRegistry returns an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{names: make(map[string]struct{})}
}

func (m *MemoryRegistry) Claim(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.names[name]; taken {
		return false, nil
	}
	m.names[name] = struct{}{}
	return true, nil
}

func (m *MemoryRegistry) Release(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.names, name)
	return nil
}
