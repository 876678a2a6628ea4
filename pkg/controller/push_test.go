package controller_test

import (
	"context"
	"testing"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePush_NewRecipeAppendsAndReconciles(t *testing.T) {
	api := newFakeAPI(soup)
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))

	api.set(domain.RecipeList{soup, toast})
	ctrl.HandlePush(ctx, []byte(`{"NewRecipe":{"name":"Toast","instructions":"Grill bread"}}`))
	assert.Equal(t, domain.RecipeList{soup, toast}, st.Recipes())

	ctrl.Wait()
	lists, _ := api.counts()
	assert.Equal(t, 2, lists)
	assert.Equal(t, domain.RecipeList{soup, toast}, st.Recipes())
}

func TestHandlePush_RecipeRolled(t *testing.T) {
	api := newFakeAPI()
	ctrl, st := setup(api)
	ctx := context.Background()

	ctrl.HandlePush(ctx, []byte(`{"RecipeRolled":{"recipe":{"name":"Soup","instructions":"Boil"}}}`))
	assert.Equal(t, &soup, st.UI().RolledRecipe)

	ctrl.HandlePush(ctx, []byte(`{"RecipeRolled":{"recipe":null}}`))
	assert.Nil(t, st.UI().RolledRecipe)

	ctrl.Wait()
	lists, _ := api.counts()
	assert.Zero(t, lists, "rolls do not trigger reads")
}

func TestHandlePush_RecipesUpdatedIsIdempotent(t *testing.T) {
	ctrl, st := setup(newFakeAPI())
	ctx := context.Background()
	msg := []byte(`{"RecipesUpdated":{"recipes":[{"name":"Soup","instructions":"Boil"},{"name":"Salad","instructions":"Toss"}]}}`)

	ctrl.HandlePush(ctx, msg)
	first := st.Snapshot()
	ctrl.HandlePush(ctx, msg)
	second := st.Snapshot()

	assert.Equal(t, domain.RecipeList{soup, salad}, second.Recipes)
	assert.Equal(t, first.Recipes, second.Recipes)
	assert.Equal(t, first.UI, second.UI)
}

func TestHandlePush_DropsBadMessages(t *testing.T) {
	ctrl, st := setup(newFakeAPI())
	ctx := context.Background()
	ctrl.HandleEvent(ctx, domain.RecipeListReplacedEvent{Recipes: domain.RecipeList{soup}})
	before := st.Snapshot()

	for _, payload := range []string{
		``,
		`not json`,
		`{"Unknown":{}}`,
		`{"NewRecipe":{"name":"A","instructions":"B"},"RecipeRolled":null}`,
		`{"RecipesUpdated":{}}`,
		`{"RecipeRolled":null}`,
		`[]`,
	} {
		assert.NotPanics(t, func() { ctrl.HandlePush(ctx, []byte(payload)) }, payload)
	}

	after := st.Snapshot()
	assert.Equal(t, before.Recipes, after.Recipes)
	assert.Equal(t, before.UI, after.UI)
}
