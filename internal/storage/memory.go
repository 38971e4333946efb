package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage implementation, useful for tests and
// simple single-process deployments. Credentials live only for the lifetime
// of the process; a restart forgets every installed store.
type MemoryStorage struct {
	mu          sync.RWMutex
	credentials map[string]StoreCredential
	events      []InstallEvent
}

// NewMemory returns an empty MemoryStorage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		credentials: make(map[string]StoreCredential),
	}
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

// GetCredential looks up a credential by store hash.
func (m *MemoryStorage) GetCredential(ctx context.Context, storeHash string) (*StoreCredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.credentials[storeHash]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

// SaveCredential inserts or replaces the credential for a store.
func (m *MemoryStorage) SaveCredential(ctx context.Context, c StoreCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if c.InstalledAt.IsZero() {
		if prev, ok := m.credentials[c.StoreHash]; ok {
			c.InstalledAt = prev.InstalledAt
		} else {
			c.InstalledAt = now
		}
	}
	c.UpdatedAt = now
	m.credentials[c.StoreHash] = c
	return nil
}

// DeleteCredential removes a credential; a missing key is not an error.
func (m *MemoryStorage) DeleteCredential(ctx context.Context, storeHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.credentials, storeHash)
	return nil
}

// ListCredentials returns all stored credentials.
func (m *MemoryStorage) ListCredentials(ctx context.Context) ([]StoreCredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]StoreCredential, 0, len(m.credentials))
	for _, c := range m.credentials {
		out = append(out, c)
	}
	return out, nil
}

// AppendEvent records an install/uninstall event.
func (m *MemoryStorage) AppendEvent(ctx context.Context, e InstallEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	m.events = append(m.events, e)
	return nil
}

// ListEvents returns the audit trail in append order.
func (m *MemoryStorage) ListEvents(ctx context.Context) ([]InstallEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]InstallEvent, len(m.events))
	copy(out, m.events)
	return out, nil
}
