package numerator

import (
	"context"
	"fmt"
	"sync"

	pkgnum "docengine/pkg/numerator"
)

// MemoryStore is an in-memory SequenceSource and number registry.
// Use in unit tests to avoid database dependencies.
type MemoryStore struct {
	mu      sync.Mutex
	numbers map[string]struct{}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{numbers: make(map[string]struct{})}
}

func (m *MemoryStore) key(req Request, number string) string {
	return fmt.Sprintf("%s|%s|%s", req.OwnerID, req.DocType, number)
}

// MaxSequence implements SequenceSource.
func (m *MemoryStore) MaxSequence(_ context.Context, req Request) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := fmt.Sprintf("%s|%s|", req.OwnerID, req.DocType)
	var highest int64
	for k := range m.numbers {
		if len(k) <= len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		if seq, ok := pkgnum.ParseSequence(req.Config, req.Period.Year(), k[len(prefix):]); ok && seq > highest {
			highest = seq
		}
	}
	return highest, nil
}

// Insert registers number, failing with ErrCollision when it exists.
func (m *MemoryStore) Insert(req Request, number string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(req, number)
	if _, ok := m.numbers[k]; ok {
		return fmt.Errorf("%w: %s", ErrCollision, number)
	}
	m.numbers[k] = struct{}{}
	return nil
}

// Ensure compile-time interface compliance.
var _ SequenceSource = (*MemoryStore)(nil)
