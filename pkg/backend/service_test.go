package backend_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/recipe-decider/pkg/adapters/memory"
	"github.com/aretw0/recipe-decider/pkg/backend"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	soup  = domain.Recipe{Name: "Soup", Instructions: "Boil"}
	toast = domain.Recipe{Name: "Toast", Instructions: "Grill bread"}
	salad = domain.Recipe{Name: "Salad", Instructions: "Toss"}
)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func newService(t *testing.T, opts ...backend.Option) (*backend.Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	repo := memory.NewRepository(soup, toast)
	return backend.NewService(repo, append([]backend.Option{backend.WithPublisher(rec)}, opts...)...), rec
}

func TestService_AddBroadcastsNewRecipe(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	got, err := svc.Add(ctx, salad)
	require.NoError(t, err)
	assert.Equal(t, salad, got)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeList{soup, toast, salad}, list)
	assert.Equal(t, []domain.Event{domain.NewRecipeEvent{Recipe: salad}}, rec.all())
}

func TestService_AddRejectsBlankFields(t *testing.T) {
	svc, rec := newService(t)
	_, err := svc.Add(context.Background(), domain.Recipe{Name: "Soup"})
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
	assert.Empty(t, rec.all())
}

func TestService_UpdateAndDeleteBroadcastList(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, 0, salad))
	require.NoError(t, svc.Delete(ctx, 1))

	assert.Equal(t, []domain.Event{
		domain.RecipeListReplacedEvent{Recipes: domain.RecipeList{salad, toast}},
		domain.RecipeListReplacedEvent{Recipes: domain.RecipeList{salad}},
	}, rec.all())
}

func TestService_InvalidIndex(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, 2), domain.ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.Update(ctx, -1, salad), domain.ErrIndexOutOfRange)
	assert.Empty(t, rec.all())
}

func TestService_Roll(t *testing.T) {
	ctx := context.Background()

	t.Run("member of the list without broadcast", func(t *testing.T) {
		svc, rec := newService(t)
		for range 20 {
			r, err := svc.Roll(ctx)
			require.NoError(t, err)
			require.NotNil(t, r)
			assert.Contains(t, domain.RecipeList{soup, toast}, *r)
		}
		assert.Empty(t, rec.all())
	})

	t.Run("deterministic selector", func(t *testing.T) {
		svc, _ := newService(t, backend.WithRandom(func(n int) int { return n - 1 }))
		r, err := svc.Roll(ctx)
		require.NoError(t, err)
		assert.Equal(t, &toast, r)
	})

	t.Run("empty list", func(t *testing.T) {
		svc := backend.NewService(memory.NewRepository())
		r, err := svc.Roll(ctx)
		require.NoError(t, err)
		assert.Nil(t, r)
	})

	t.Run("announce broadcasts", func(t *testing.T) {
		svc, rec := newService(t, backend.WithRandom(func(int) int { return 0 }))
		r, err := svc.Announce(ctx)
		require.NoError(t, err)
		assert.Equal(t, &soup, r)
		assert.Equal(t, []domain.Event{domain.RecipeRolledEvent{Recipe: &soup}}, rec.all())
	})
}

type stubLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	failWith error
}

func (l *stubLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	l.locks++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestService_UsesLocker(t *testing.T) {
	locker := &stubLocker{}
	svc, _ := newService(t, backend.WithLocker(locker, time.Second))
	ctx := context.Background()

	_, err := svc.Add(ctx, salad)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 0))
	_, err = svc.Roll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, locker.locks, "reads do not lock")
	assert.Equal(t, 2, locker.unlocks)

	locker.failWith = errors.New("busy")
	_, err = svc.Add(ctx, salad)
	assert.ErrorContains(t, err, "busy")
}

func TestService_ConcurrentAdds(t *testing.T) {
	svc := backend.NewService(memory.NewRepository())
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Add(ctx, soup)
		}()
	}
	wg.Wait()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
