package domain_test

import (
	"testing"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_Validate(t *testing.T) {
	assert.NoError(t, domain.NewRecipe(" Soup ", "Boil").Validate())
	assert.ErrorIs(t, domain.Recipe{Name: "", Instructions: "Boil"}.Validate(), domain.ErrInvalidRecipe)
	assert.ErrorIs(t, domain.Recipe{Name: "Soup", Instructions: ""}.Validate(), domain.ErrInvalidRecipe)
}

func TestRecipe_ValidateAcceptsWhitespace(t *testing.T) {
	assert.NoError(t, domain.Recipe{Name: " ", Instructions: "Boil"}.Validate())
	assert.NoError(t, domain.Recipe{Name: "Soup", Instructions: "\t"}.Validate())

	// NewRecipe trims, so the same input built through it is rejected.
	assert.ErrorIs(t, domain.NewRecipe(" ", "Boil").Validate(), domain.ErrInvalidRecipe)
}

func TestRecipeList_Remove(t *testing.T) {
	list := domain.RecipeList{
		{Name: "a", Instructions: "1"},
		{Name: "b", Instructions: "2"},
		{Name: "c", Instructions: "3"},
		{Name: "d", Instructions: "4"},
	}

	for i := range list {
		out, err := list.Remove(i)
		require.NoError(t, err)
		require.Len(t, out, len(list)-1)

		// Every other element keeps its relative order.
		want := append(list[:i:i], list[i+1:]...)
		assert.Equal(t, want, out, "removing index %d", i)
	}

	// The receiver is untouched.
	assert.Equal(t, "a", list[0].Name)
	assert.Len(t, list, 4)
}

func TestRecipeList_OutOfRange(t *testing.T) {
	list := domain.RecipeList{{Name: "a", Instructions: "1"}}

	_, err := list.Remove(1)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = list.Remove(-1)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = list.Replace(3, domain.Recipe{})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestRecipeList_CloneDoesNotAlias(t *testing.T) {
	list := domain.RecipeList{{Name: "a", Instructions: "1"}}
	clone := list.Clone()
	clone[0].Name = "changed"
	assert.Equal(t, "a", list[0].Name)

	var empty domain.RecipeList
	assert.NotNil(t, empty.Clone())
}

func TestUIState_Apply(t *testing.T) {
	ui := domain.NewUIState()
	assert.Equal(t, domain.TabRoll, ui.CurrentTab)

	ui = ui.Apply(domain.UIPatch{
		CurrentTab:         domain.Ptr(domain.TabInput),
		IsEditMode:         domain.Ptr(true),
		EditingRecipeIndex: domain.Ptr(2),
	})
	assert.Equal(t, domain.TabInput, ui.CurrentTab)
	assert.True(t, ui.IsEditMode)
	require.NotNil(t, ui.EditingRecipeIndex)
	assert.Equal(t, 2, *ui.EditingRecipeIndex)

	ui = ui.Apply(domain.UIPatch{IsEditMode: domain.Ptr(false), ClearEditingIndex: true})
	assert.False(t, ui.IsEditMode)
	assert.Nil(t, ui.EditingRecipeIndex)
	assert.Equal(t, domain.TabInput, ui.CurrentTab, "untouched fields survive a patch")

	rolled := domain.Recipe{Name: "Soup", Instructions: "Boil"}
	ui = ui.Apply(domain.SetRolled(&rolled))
	require.NotNil(t, ui.RolledRecipe)
	assert.Equal(t, rolled, *ui.RolledRecipe)

	ui = ui.Apply(domain.SetRolled(nil))
	assert.Nil(t, ui.RolledRecipe)
}

func TestParseTab(t *testing.T) {
	tab, err := domain.ParseTab("input")
	require.NoError(t, err)
	assert.Equal(t, domain.TabInput, tab)

	_, err = domain.ParseTab("settings")
	assert.Error(t, err)
}
