package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// Store implements ports.UIStateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.UIState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.UIState),
	}
}

// Save persists the UI state in memory.
func (s *Store) Save(ctx context.Context, sessionID string, ui *domain.UIState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = ui.Clone()
	return nil
}

// Load retrieves the UI state from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.UIState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ui, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so callers can't reach stored pointers.
	ret := ui.Clone()
	return &ret, nil
}

// Delete removes the UI state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored sessions in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
