package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// Repository implements ports.RecipeRepository as a single JSON file.
// The whole list is rewritten after every mutation; a failed write leaves both
// the file and the in-memory list unchanged.
type Repository struct {
	path string

	mu      sync.RWMutex
	recipes domain.RecipeList
}

type recipesFile struct {
	Recipes domain.RecipeList `json:"recipes"`
}

// NewRepository opens path, loading its recipes if the file exists.
func NewRepository(path string) (*Repository, error) {
	r := &Repository{path: path, recipes: domain.RecipeList{}}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read recipes file: %w", err)
	}

	var f recipesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse recipes file %s: %w", path, err)
	}
	r.recipes = f.Recipes.Clone()
	return r, nil
}

// List returns a copy of the stored list.
func (r *Repository) List(ctx context.Context) (domain.RecipeList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recipes.Clone(), nil
}

// Append adds recipe at the end.
func (r *Repository) Append(ctx context.Context, recipe domain.Recipe) error {
	return r.update(func(l domain.RecipeList) (domain.RecipeList, error) {
		return l.Append(recipe), nil
	})
}

// Replace overwrites the recipe at index.
func (r *Repository) Replace(ctx context.Context, index int, recipe domain.Recipe) error {
	return r.update(func(l domain.RecipeList) (domain.RecipeList, error) {
		return l.Replace(index, recipe)
	})
}

// Remove deletes the recipe at index.
func (r *Repository) Remove(ctx context.Context, index int) error {
	return r.update(func(l domain.RecipeList) (domain.RecipeList, error) {
		return l.Remove(index)
	})
}

func (r *Repository) update(fn func(domain.RecipeList) (domain.RecipeList, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := fn(r.recipes)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(recipesFile{Recipes: next}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}
	if err := writeAtomic(r.path, data); err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}
	r.recipes = next
	return nil
}
