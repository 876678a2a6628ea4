package ports

import (
	"context"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// UIStateStore defines the interface for persisting session-scoped UI state.
// The recipe list is never stored here: it is always re-derived from the backend.
type UIStateStore interface {
	// Save persists the UI state for a given session ID.
	Save(ctx context.Context, sessionID string, ui *domain.UIState) error

	// Load retrieves the UI state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.UIState, error)

	// Delete removes the UI state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the sessions currently stored.
	List(ctx context.Context) ([]string, error)
}
