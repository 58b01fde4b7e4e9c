package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

type memoryEntry struct {
	data    Data
	expires time.Time
}

// MemoryStore keeps sessions in process. Entries expire ttl after their last save.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	data   map[string]memoryEntry
	claims map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		data:   make(map[string]memoryEntry),
		claims: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Create(ctx context.Context, d Data) (string, error) {
	id := newID()
	return id, m.Save(ctx, id, d)
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(e.expires) {
		delete(m.data, id)
		return nil, ErrNotFound
	}
	d := e.data
	d.Pending = maps.Clone(e.data.Pending)
	return &d, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, d Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d.Pending = maps.Clone(d.Pending)
	m.data[id] = memoryEntry{data: d, expires: m.now().Add(m.ttl)}
	m.sweep()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, id)
	return nil
}

func (m *MemoryStore) Claim(_ context.Context, id, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := claimKey(id, token)
	if exp, ok := m.claims[k]; ok && m.now().Before(exp) {
		return false, nil
	}
	m.claims[k] = m.now().Add(m.ttl)
	return true, nil
}

// sweep drops expired entries. Caller holds mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for id, e := range m.data {
		if !now.Before(e.expires) {
			delete(m.data, id)
		}
	}
	for k, exp := range m.claims {
		if !now.Before(exp) {
			delete(m.claims, k)
		}
	}
}

func claimKey(id, token string) string {
	return "submit:" + id + ":" + token
}
