// Package memory provides a thread-safe in-memory implementation of
// storage.Medium. Suitable for testing, demos, and single-process use.
package memory

import (
	"sync"

	"github.com/mhollis/wardkeep/storage"
)

// Medium is a thread-safe in-memory implementation of storage.Medium.
type Medium struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ storage.Medium = (*Medium)(nil)

// New creates an empty in-memory Medium.
func New() *Medium {
	return &Medium{data: make(map[string]string)}
}

func (m *Medium) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *Medium) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Medium) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Medium) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *Medium) Clear() error {
	m.mu.Lock()
	m.data = make(map[string]string)
	m.mu.Unlock()
	return nil
}
