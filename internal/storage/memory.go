package storage

import "sync"

// MemoryStore is a map-backed Store. Its contents do not outlive the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	quota  int64
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		quota:  quota,
	}
}

func (m *MemoryStore) Read(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStore) Write(key, value string) error {
	if err := checkQuota(m.quota, key, value); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
