package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunUIStateStoreContract runs a suite of tests to verify that a UIStateStore implementation
// adheres to the defined interface contract.
func RunUIStateStoreContract(t *testing.T, store UIStateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		soup := domain.Recipe{Name: "Soup", Instructions: "Boil"}
		ui := domain.NewUIState().Apply(domain.UIPatch{
			CurrentTab:         domain.Ptr(domain.TabInput),
			IsEditMode:         domain.Ptr(true),
			EditingRecipeIndex: domain.Ptr(3),
			RolledRecipe:       &soup,
		})

		err := store.Save(ctx, sessionID, &ui)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.TabInput, loaded.CurrentTab)
		assert.True(t, loaded.IsEditMode)
		require.NotNil(t, loaded.EditingRecipeIndex)
		assert.Equal(t, 3, *loaded.EditingRecipeIndex)
		require.NotNil(t, loaded.RolledRecipe)
		assert.Equal(t, soup, *loaded.RolledRecipe)
		assert.False(t, loaded.DeleteConfirmation.IsOpen)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		ui := domain.NewUIState()
		err := store.Save(ctx, sessionID, &ui)
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		ui := domain.NewUIState()
		_ = store.Save(ctx, id1, &ui)
		_ = store.Save(ctx, id2, &ui)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunRecipeRepositoryContract verifies the positional semantics of a RecipeRepository.
// The repository must be empty when the suite starts.
func RunRecipeRepositoryContract(t *testing.T, repo RecipeRepository) {
	ctx := context.Background()
	soup := domain.Recipe{Name: "Soup", Instructions: "Boil"}
	toast := domain.Recipe{Name: "Toast", Instructions: "Grill bread"}
	salad := domain.Recipe{Name: "Salad", Instructions: "Toss"}

	t.Run("Empty", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Append keeps insertion order", func(t *testing.T) {
		require.NoError(t, repo.Append(ctx, soup))
		require.NoError(t, repo.Append(ctx, toast))
		require.NoError(t, repo.Append(ctx, salad))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.RecipeList{soup, toast, salad}, list)
	})

	t.Run("Replace", func(t *testing.T) {
		stew := domain.Recipe{Name: "Stew", Instructions: "Simmer"}
		require.NoError(t, repo.Replace(ctx, 1, stew))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.RecipeList{soup, stew, salad}, list)

		require.NoError(t, repo.Replace(ctx, 1, toast))
	})

	t.Run("Remove preserves order", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, 1))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.RecipeList{soup, salad}, list)
	})

	t.Run("Out of range", func(t *testing.T) {
		assert.ErrorIs(t, repo.Remove(ctx, 5), domain.ErrIndexOutOfRange)
		assert.ErrorIs(t, repo.Remove(ctx, -1), domain.ErrIndexOutOfRange)
		assert.ErrorIs(t, repo.Replace(ctx, 2, toast), domain.ErrIndexOutOfRange)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2, "failed operations leave the list untouched")
	})

	t.Run("Remove all", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, 0))
		require.NoError(t, repo.Remove(ctx, 0))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
