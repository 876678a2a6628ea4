package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/recipe-decider/pkg/adapters/redis"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunUIStateStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	clock := time.Now()
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Second),
		redis.WithClock(func() time.Time { return clock }),
	)
	ctx := context.Background()
	ui := domain.NewUIState()

	require.NoError(t, store.Save(ctx, "session-ttl", &ui))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	// Key expiry is miniredis' clock, index pruning is ours.
	mr.FastForward(2 * time.Second)
	clock = clock.Add(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	ui := domain.NewUIState()

	require.NoError(t, store.Save(ctx, "my-session", &ui))
	assert.True(t, mr.Exists("custom:app:my-session"))
	assert.True(t, mr.Exists("custom:app:index"))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-session")
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)
	ui := domain.NewUIState()
	require.NoError(t, redis.NewFromClient(client).Save(context.Background(), "s", &ui))
	assert.True(t, mr.Exists("recipe_decider:session:s"))
}

func TestRedisRepository_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunRecipeRepositoryContract(t, redis.NewRepository(client, "test:"))
}

func TestRedisRepository_Duplicates(t *testing.T) {
	mr, client := newClient(t)
	repo := redis.NewRepository(client, "")
	ctx := context.Background()
	soup := domain.Recipe{Name: "Soup", Instructions: "Boil"}

	// Identical recipes are distinct entries; removal is strictly positional.
	require.NoError(t, repo.Append(ctx, soup))
	require.NoError(t, repo.Append(ctx, domain.Recipe{Name: "Toast", Instructions: "Grill bread"}))
	require.NoError(t, repo.Append(ctx, soup))
	require.NoError(t, repo.Remove(ctx, 2))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Toast", list[1].Name)
	assert.Len(t, list, 2)
	assert.True(t, mr.Exists("recipe_decider:recipes"))
}

func TestRedisRepository_CorruptEntry(t *testing.T) {
	mr, client := newClient(t)
	_, err := mr.Push("recipe_decider:recipes", "{bad")
	require.NoError(t, err)

	_, err = redis.NewRepository(client, "").List(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformed)
}
