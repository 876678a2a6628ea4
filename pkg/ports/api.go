package ports

import (
	"context"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// RecipeAPI is the remote recipe resource.
// Implementations return domain.ErrRemote for non-success answers and
// domain.ErrMalformed for undecodable ones.
type RecipeAPI interface {
	// List reads the full authoritative list.
	List(ctx context.Context) (domain.RecipeList, error)

	// Add creates a recipe. The returned recipe is the canonical copy echoed by
	// the backend, or nil when the backend did not echo one.
	Add(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error)

	// Update replaces the recipe at index.
	Update(ctx context.Context, index int, recipe domain.Recipe) error

	// Delete removes the recipe at index.
	Delete(ctx context.Context, index int) error

	// Roll asks the backend for a random recipe. Nil means there was nothing to roll.
	Roll(ctx context.Context) (*domain.Recipe, error)
}

// EventPublisher fans push events out to every connected client.
type EventPublisher interface {
	Publish(ev domain.Event)
}
