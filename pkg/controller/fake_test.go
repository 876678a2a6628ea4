package controller_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

var errBackendDown = errors.New("backend down")

// fakeAPI is an in-memory recipe backend with knobs for failures and ordering.
type fakeAPI struct {
	mu      sync.Mutex
	recipes domain.RecipeList

	listErr  error
	writeErr error
	noEcho   bool

	// listGate, when set, blocks every List call until it can receive.
	listGate chan struct{}

	lists  int
	writes int
	rolled *domain.Recipe
}

func newFakeAPI(recipes ...domain.Recipe) *fakeAPI {
	return &fakeAPI{recipes: domain.RecipeList(recipes).Clone()}
}

func (f *fakeAPI) List(ctx context.Context) (domain.RecipeList, error) {
	f.mu.Lock()
	gate := f.listGate
	f.lists++
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.recipes.Clone(), nil
}

func (f *fakeAPI) Add(_ context.Context, r domain.Recipe) (*domain.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.recipes = f.recipes.Append(r)
	if f.noEcho {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeAPI) Update(_ context.Context, index int, r domain.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	list, err := f.recipes.Replace(index, r)
	if err != nil {
		return err
	}
	f.recipes = list
	return nil
}

func (f *fakeAPI) Delete(_ context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	list, err := f.recipes.Remove(index)
	if err != nil {
		return err
	}
	f.recipes = list
	return nil
}

func (f *fakeAPI) Roll(_ context.Context) (*domain.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if f.rolled != nil {
		r := *f.rolled
		return &r, nil
	}
	if len(f.recipes) == 0 {
		return nil, nil
	}
	r := f.recipes[len(f.recipes)-1]
	return &r, nil
}

// set replaces the authoritative list, simulating another client.
func (f *fakeAPI) set(list domain.RecipeList) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes = list.Clone()
}

func (f *fakeAPI) counts() (lists, writes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, f.writes
}
