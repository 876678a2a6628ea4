package ports

import (
	"context"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// RecipeRepository is the backend's storage for the authoritative list.
// Positional operations return domain.ErrIndexOutOfRange for missing indices.
type RecipeRepository interface {
	List(ctx context.Context) (domain.RecipeList, error)
	Append(ctx context.Context, recipe domain.Recipe) error
	Replace(ctx context.Context, index int, recipe domain.Recipe) error
	Remove(ctx context.Context, index int) error
}
