package memory

import (
	"context"
	"sync"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// Repository implements ports.RecipeRepository in memory.
// Safe for concurrent use.
type Repository struct {
	mu      sync.RWMutex
	recipes domain.RecipeList
}

// NewRepository creates a repository seeded with recipes.
func NewRepository(recipes ...domain.Recipe) *Repository {
	return &Repository{recipes: domain.RecipeList(recipes).Clone()}
}

// List returns a copy of the stored list.
func (r *Repository) List(ctx context.Context) (domain.RecipeList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recipes.Clone(), nil
}

// Append adds recipe at the end.
func (r *Repository) Append(ctx context.Context, recipe domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = r.recipes.Append(recipe)
	return nil
}

// Replace overwrites the recipe at index.
func (r *Repository) Replace(ctx context.Context, index int, recipe domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.recipes.Replace(index, recipe)
	if err != nil {
		return err
	}
	r.recipes = list
	return nil
}

// Remove deletes the recipe at index.
func (r *Repository) Remove(ctx context.Context, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.recipes.Remove(index)
	if err != nil {
		return err
	}
	r.recipes = list
	return nil
}
