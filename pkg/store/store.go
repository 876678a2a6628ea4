package store

import (
	"log/slog"
	"sync"

	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
)

// DefaultSubscriberBuffer is the channel capacity handed out by Subscribe.
const DefaultSubscriberBuffer = 16

// Store is the process-wide state container for recipes and UI state.
// Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	recipes     domain.RecipeList
	ui          domain.UIState
	seq         uint64 // Ticket counter shared by reads and list mutations
	listVersion uint64 // Ticket of the last committed list change
	rev         uint64 // Bumped on every commit; exposed as Snapshot.Version

	subMu     sync.RWMutex
	nextSubID int
	callbacks map[int]func(domain.Snapshot)
	channels  map[int]chan domain.Snapshot

	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for the Store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithUIState seeds the UI state, e.g. from a restored session.
func WithUIState(ui domain.UIState) Option {
	return func(s *Store) {
		s.ui = ui.Clone()
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		recipes:   domain.RecipeList{},
		ui:        domain.NewUIState(),
		callbacks: make(map[int]func(domain.Snapshot)),
		channels:  make(map[int]chan domain.Snapshot),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextVersion allocates a ticket for an authoritative read about to be issued.
func (s *Store) NextVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// ReplaceAll overwrites the list wholesale. It always wins over older tickets.
func (s *Store) ReplaceAll(list domain.RecipeList) {
	s.commit(func() bool {
		s.seq++
		s.listVersion = s.seq
		s.recipes = list.Clone()
		return true
	})
}

// ApplySnapshot replaces the list with an authoritative result obtained with the
// given ticket. It reports false, leaving the store untouched, when the ticket is
// older than the last list change.
func (s *Store) ApplySnapshot(version uint64, list domain.RecipeList) bool {
	applied := s.commit(func() bool {
		if version < s.listVersion {
			return false
		}
		s.listVersion = version
		if version > s.seq {
			s.seq = version
		}
		s.recipes = list.Clone()
		return true
	})
	if !applied {
		s.logger.Debug("store: discarded stale snapshot", "version", version)
	}
	return applied
}

// Append adds a recipe at the end of the list.
func (s *Store) Append(recipe domain.Recipe) {
	s.commit(func() bool {
		s.seq++
		s.listVersion = s.seq
		s.recipes = s.recipes.Append(recipe)
		return true
	})
}

// ReplaceAt swaps the recipe at index. Out-of-range indices leave the store untouched.
func (s *Store) ReplaceAt(index int, recipe domain.Recipe) error {
	var err error
	s.commit(func() bool {
		var out domain.RecipeList
		out, err = s.recipes.Replace(index, recipe)
		if err != nil {
			return false
		}
		s.seq++
		s.listVersion = s.seq
		s.recipes = out
		return true
	})
	return err
}

// RemoveAt deletes the recipe at index. Out-of-range indices leave the store untouched.
func (s *Store) RemoveAt(index int) error {
	var err error
	s.commit(func() bool {
		var out domain.RecipeList
		out, err = s.recipes.Remove(index)
		if err != nil {
			return false
		}
		s.seq++
		s.listVersion = s.seq
		s.recipes = out
		return true
	})
	return err
}

// SetUIState merges a partial update into the UI state.
func (s *Store) SetUIState(patch domain.UIPatch) {
	s.commit(func() bool {
		s.ui = s.ui.Apply(patch)
		return true
	})
}

// Recipes returns a copy of the list.
func (s *Store) Recipes() domain.RecipeList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipes.Clone()
}

// UI returns a copy of the UI state.
func (s *Store) UI() domain.UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.Clone()
}

// Snapshot returns a consistent copy of list and UI state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// ListVersion returns the ticket of the last committed list change.
func (s *Store) ListVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listVersion
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Version: s.rev,
		Recipes: s.recipes.Clone(),
		UI:      s.ui.Clone(),
	}
}

// commit runs mutate under the write lock and notifies subscribers when it reports a change.
func (s *Store) commit(mutate func() bool) bool {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return false
	}
	s.rev++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}
