package session

import (
	"context"
	"reflect"
	"sync"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/store"
)

// Restore loads the UI state for sessionID (creating it if needed) into a new
// Store. The recipe list starts empty.
func (m *Manager) Restore(ctx context.Context, sessionID string, opts ...store.Option) (*store.Store, error) {
	ui, err := m.LoadOrStart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	opts = append(opts, store.WithUIState(*ui))
	return store.New(opts...), nil
}

// Track saves st's UI state under sessionID whenever it changes.
// Saves run synchronously on the notifying goroutine and go straight to the
// underlying store, so a commit made inside WithLock for the same session does
// not wait on the lock it already holds. Failures are logged.
// The returned func stops tracking.
func (m *Manager) Track(ctx context.Context, sessionID string, st *store.Store) func() {
	snap := st.Snapshot()
	t := &tracker{
		manager:   m,
		ctx:       context.WithoutCancel(ctx),
		sessionID: sessionID,
		version:   snap.Version,
		last:      snap.UI,
	}
	return st.OnChange(t.observe)
}

// tracker persists the UI state of the newest snapshot it has seen.
type tracker struct {
	manager   *Manager
	ctx       context.Context
	sessionID string

	mu      sync.Mutex
	version uint64
	last    domain.UIState
}

// observe skips snapshots older than one already seen: concurrent commits may
// notify out of order.
func (t *tracker) observe(snap domain.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if snap.Version <= t.version {
		return
	}
	t.version = snap.Version

	if reflect.DeepEqual(t.last, snap.UI) {
		return
	}
	ui := snap.UI.Clone()
	if err := t.manager.store.Save(t.ctx, t.sessionID, &ui); err != nil {
		t.manager.logger.Error("failed to persist ui state", "session_id", t.sessionID, "error", err)
		return
	}
	t.last = ui
	t.manager.logger.Debug("ui state persisted", "session_id", t.sessionID, "version", snap.Version)
}
