package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// Positional writes run as scripts so the bounds check and the write are atomic.
var (
	replaceScript = backend.NewScript(`
		local n = redis.call("LLEN", KEYS[1])
		local i = tonumber(ARGV[1])
		if i < 0 or i >= n then
			return 0
		end
		redis.call("LSET", KEYS[1], i, ARGV[2])
		return 1
	`)

	// LREM cannot address by index: mark the slot with a unique tombstone first.
	removeScript = backend.NewScript(`
		local n = redis.call("LLEN", KEYS[1])
		local i = tonumber(ARGV[1])
		if i < 0 or i >= n then
			return 0
		end
		redis.call("LSET", KEYS[1], i, ARGV[2])
		redis.call("LREM", KEYS[1], 1, ARGV[2])
		return 1
	`)
)

// Repository implements ports.RecipeRepository as a Redis list of JSON recipes.
type Repository struct {
	client *backend.Client
	key    string
}

// NewRepository stores the list under prefix+"recipes".
// An empty prefix uses DefaultPrefix.
func NewRepository(client *backend.Client, prefix string) *Repository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repository{client: client, key: prefix + "recipes"}
}

// List returns the stored list in order.
func (r *Repository) List(ctx context.Context) (domain.RecipeList, error) {
	vals, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	list := make(domain.RecipeList, 0, len(vals))
	for i, v := range vals {
		var recipe domain.Recipe
		if err := json.Unmarshal([]byte(v), &recipe); err != nil {
			return nil, fmt.Errorf("%w: recipe %d: %v", domain.ErrMalformed, i, err)
		}
		list = append(list, recipe)
	}
	return list, nil
}

// Append adds recipe at the tail.
func (r *Repository) Append(ctx context.Context, recipe domain.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("failed to append recipe: %w", err)
	}
	return nil
}

// Replace overwrites the recipe at index.
func (r *Repository) Replace(ctx context.Context, index int, recipe domain.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	return r.positional(ctx, replaceScript, index, string(data))
}

// Remove deletes the recipe at index.
func (r *Repository) Remove(ctx context.Context, index int) error {
	return r.positional(ctx, removeScript, index, "tombstone:"+uuid.NewString())
}

func (r *Repository) positional(ctx context.Context, script *backend.Script, index int, arg string) error {
	ok, err := script.Run(ctx, r.client, []string{r.key}, index, arg).Int()
	if err != nil {
		return fmt.Errorf("failed to update recipes: %w", err)
	}
	if ok == 0 {
		return fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
	}
	return nil
}
