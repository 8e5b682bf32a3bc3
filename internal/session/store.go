package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store maps an opaque session id to the id of the user it was issued for.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, sessionID string) (int64, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type entry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. It is meant for single-node
// deployments and tests. Expired sessions are dropped on lookup and swept on
// every Create.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, userID int64) (string, error) {
	sessionID := uuid.New().String()

	now := s.now()

	s.mu.Lock()
	s.sweepLocked(now)
	s.sessions[sessionID] = entry{userID: userID, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()

	return sessionID, nil
}

// sweepLocked drops expired sessions. s.mu must be held.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, e := range s.sessions {
		if !e.expiresAt.After(now) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Resolve(_ context.Context, sessionID string) (int64, bool, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return 0, false, nil
	}

	if !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return 0, false, nil
	}

	return e.userID, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
