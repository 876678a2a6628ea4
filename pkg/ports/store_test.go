package ports_test

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/ports"
)

// MockStore is an in-memory implementation of UIStateStore for testing purposes.
type MockStore struct {
	data map[string]domain.UIState
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.UIState),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, ui *domain.UIState) error {
	// Deep copy to simulate serialization
	m.data[sessionID] = ui.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.UIState, error) {
	ui, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := ui.Clone()
	return &out, nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// MockRepository is a slice-backed RecipeRepository.
type MockRepository struct {
	list domain.RecipeList
}

func (m *MockRepository) List(ctx context.Context) (domain.RecipeList, error) {
	return m.list.Clone(), nil
}

func (m *MockRepository) Append(ctx context.Context, r domain.Recipe) error {
	m.list = m.list.Append(r)
	return nil
}

func (m *MockRepository) Replace(ctx context.Context, index int, r domain.Recipe) error {
	out, err := m.list.Replace(index, r)
	if err != nil {
		return err
	}
	m.list = out
	return nil
}

func (m *MockRepository) Remove(ctx context.Context, index int) error {
	out, err := m.list.Remove(index)
	if err != nil {
		return err
	}
	m.list = out
	return nil
}

func TestUIStateStore_Contract(t *testing.T) {
	// The mock doubles as a reference for adapter authors.
	ports.RunUIStateStoreContract(t, NewMockStore())
}

func TestRecipeRepository_Contract(t *testing.T) {
	ports.RunRecipeRepositoryContract(t, &MockRepository{})
}
