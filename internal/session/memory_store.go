package session

import (
	"context"
	"sync"
	"time"

	"github.com/mateusmacedo/go-bff/internal/clock"
)

type memoryEntry struct {
	session Session
	flashes map[string]string
	expires time.Time
}

// MemoryStore guarda as sessões na memória do processo.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	clock   clock.Clock
}

func NewMemoryStore(ttl time.Duration, c clock.Clock) *MemoryStore {
	if c == nil {
		c = clock.RealClock{}
	}
	return &MemoryStore{entries: make(map[string]*memoryEntry), ttl: ttl, clock: c}
}

// entry deve ser chamado com o mutex travado; remove entradas expiradas.
func (m *MemoryStore) entry(id string) *memoryEntry {
	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	if !e.expires.IsZero() && !m.clock.Now().Before(e.expires) {
		delete(m.entries, id)
		return nil
	}
	return e
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(id)
	if e == nil {
		return nil, ErrNotFound
	}
	s := e.session
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expires time.Time
	if m.ttl > 0 {
		expires = m.clock.Now().Add(m.ttl)
	}
	e := m.entry(s.ID)
	if e == nil {
		e = &memoryEntry{flashes: make(map[string]string)}
		m.entries[s.ID] = e
	}
	e.session = *s
	e.expires = expires
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) PushFlash(_ context.Context, id, key, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(id)
	if e == nil {
		return ErrNotFound
	}
	e.flashes[key] = msg
	return nil
}

func (m *MemoryStore) PopFlash(_ context.Context, id, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(id)
	if e == nil {
		return "", false, ErrNotFound
	}
	msg, ok := e.flashes[key]
	delete(e.flashes, key)
	return msg, ok, nil
}

func (m *MemoryStore) PopAllFlashes(_ context.Context, id string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(id)
	if e == nil {
		return nil, ErrNotFound
	}
	out := e.flashes
	e.flashes = make(map[string]string)
	return out, nil
}
