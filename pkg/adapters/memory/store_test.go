package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/recipe-decider/pkg/adapters/memory"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunUIStateStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	ui := domain.NewUIState()
	ui.EditingRecipeIndex = domain.Ptr(1)
	require.NoError(t, store.Save(ctx, "s1", &ui))

	*ui.EditingRecipeIndex = 9
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, *loaded.EditingRecipeIndex)
}

func TestMemoryRepository_Contract(t *testing.T) {
	ports.RunRecipeRepositoryContract(t, memory.NewRepository())
}

func TestMemoryRepository_Seeded(t *testing.T) {
	soup := domain.Recipe{Name: "Soup", Instructions: "Boil"}
	repo := memory.NewRepository(soup)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeList{soup}, list)

	list[0].Name = "mutated"
	again, _ := repo.List(context.Background())
	assert.Equal(t, "Soup", again[0].Name)
}
