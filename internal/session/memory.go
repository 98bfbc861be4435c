package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	values  Values
	expires time.Time
}

// MemoryBackend keeps sessions in process memory.  It is used when Redis is
// not reachable and in tests.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryBackend) Load(_ context.Context, id string) (Values, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return Values{}, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, id)
		return Values{}, nil
	}
	out := make(Values, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryBackend) Save(_ context.Context, id string, v Values, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(Values, len(v))
	for k, val := range v {
		cp[k] = val
	}
	m.entries[id] = memoryEntry{values: cp, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryBackend) Update(_ context.Context, id string, set Values, del []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || m.now().After(e.expires) {
		e = memoryEntry{values: Values{}}
	}
	for k, v := range set {
		e.values[k] = v
	}
	for _, k := range del {
		delete(e.values, k)
	}
	if len(e.values) == 0 {
		delete(m.entries, id)
		return nil
	}
	e.expires = m.now().Add(ttl)
	m.entries[id] = e
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
