package sessions

import (
	"context"
	"sync"
	"time"

	trading "main/internal/domain/entity/trading"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. It is the default
// when no Redis is configured; sessions then do not survive restarts,
// which matches cookie-session semantics closely enough for a
// single-instance simulator.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	session   *trading.Session
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*trading.Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, interfaces.ErrSessionNotFound
	}
	return entry.session, nil
}

// Save stores the session and refreshes its expiry. Expired entries
// are swept opportunistically on write rather than by a janitor
// goroutine.
func (s *MemoryStore) Save(_ context.Context, session *trading.Session) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[session.ID] = memoryEntry{session: session, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
