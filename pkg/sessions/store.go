// Package sessions stores funnel sessions between requests.
package sessions

import (
	"context"
	"errors"
	"sync"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// ErrSessionNotFound indicates no session exists for the given identifier.
var ErrSessionNotFound = errors.New("funnel session not found")

// Store persists funnel sessions. Each session is owned by one browser tab;
// inputs for a session arrive sequentially, so stores only need to be safe
// across different sessions.
type Store interface {
	Get(ctx context.Context, id string) (*models.FunnelSession, error)
	Save(ctx context.Context, session *models.FunnelSession) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Used for tests and
// single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.FunnelSession
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.FunnelSession),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.FunnelSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (s *MemoryStore) Save(_ context.Context, session *models.FunnelSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)

	return nil
}
