package controller_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/recipe-decider/pkg/controller"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/metrics"
	"github.com/aretw0/recipe-decider/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	soup  = domain.Recipe{Name: "Soup", Instructions: "Boil"}
	toast = domain.Recipe{Name: "Toast", Instructions: "Grill bread"}
	salad = domain.Recipe{Name: "Salad", Instructions: "Toss"}
)

func setup(api *fakeAPI) (*controller.Controller, *store.Store) {
	st := store.New()
	return controller.New(api, st), st
}

func TestInit_RoutesTab(t *testing.T) {
	t.Run("empty list opens the input tab", func(t *testing.T) {
		ctrl, st := setup(newFakeAPI())
		require.NoError(t, ctrl.Init(context.Background()))
		assert.Equal(t, domain.TabInput, st.UI().CurrentTab)
		assert.Empty(t, st.Recipes())
		assert.Equal(t, domain.SyncApplied, ctrl.Status())
	})

	t.Run("non-empty list opens the roll tab", func(t *testing.T) {
		ctrl, st := setup(newFakeAPI(soup))
		require.NoError(t, ctrl.Init(context.Background()))
		assert.Equal(t, domain.TabRoll, st.UI().CurrentTab)
		assert.Equal(t, domain.RecipeList{soup}, st.Recipes())
	})
}

func TestInit_FailureLeavesEmptyStore(t *testing.T) {
	api := newFakeAPI(soup)
	api.listErr = errBackendDown
	ctrl, st := setup(api)

	assert.Equal(t, domain.SyncIdle, ctrl.Status())
	err := ctrl.Init(context.Background())
	require.ErrorIs(t, err, errBackendDown)
	assert.Empty(t, st.Recipes())
	assert.Equal(t, domain.SyncFetchFailed, ctrl.Status())
}

func TestAdd_OptimisticThenReconciled(t *testing.T) {
	api := newFakeAPI()
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))

	// Hold the reconciling read so the optimistic state is observable.
	gate := make(chan struct{})
	api.mu.Lock()
	api.listGate = gate
	api.mu.Unlock()

	require.NoError(t, ctrl.Add(ctx, toast.Name, toast.Instructions))
	assert.Equal(t, domain.RecipeList{toast}, st.Recipes())

	// Another client adds a recipe before the read completes.
	api.set(domain.RecipeList{toast, soup})
	close(gate)
	ctrl.Wait()

	assert.Equal(t, domain.RecipeList{toast, soup}, st.Recipes())
	assert.Equal(t, domain.SyncApplied, ctrl.Status())
}

func TestAdd_ConvergesAfterManyAdds(t *testing.T) {
	api := newFakeAPI()
	ctrl, st := setup(api)
	ctx := context.Background()

	var want domain.RecipeList
	for i := range 10 {
		r := domain.Recipe{Name: fmt.Sprintf("R%d", i), Instructions: "Cook"}
		want = append(want, r)
		require.NoError(t, ctrl.Add(ctx, r.Name, r.Instructions))
	}
	ctrl.Wait()

	assert.Equal(t, want, st.Recipes())
}

func TestAdd_UsesLocalValuesWithoutEcho(t *testing.T) {
	api := newFakeAPI()
	api.noEcho = true
	api.listErr = errBackendDown // keep the optimistic state
	ctrl, st := setup(api)

	require.NoError(t, ctrl.Add(context.Background(), toast.Name, toast.Instructions))
	ctrl.Wait()

	assert.Equal(t, domain.RecipeList{toast}, st.Recipes())
	assert.Equal(t, domain.SyncFetchFailed, ctrl.Status())
}

func TestAdd_InvalidSkipsRemote(t *testing.T) {
	api := newFakeAPI()
	ctrl, st := setup(api)

	for _, tc := range []struct{ name, instructions string }{
		{"", "Boil"},
		{"Soup", ""},
		{"", ""},
	} {
		err := ctrl.Add(context.Background(), tc.name, tc.instructions)
		assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
		assert.True(t, controller.IsInvalid(err))
	}
	ctrl.Wait()

	lists, writes := api.counts()
	assert.Zero(t, lists)
	assert.Zero(t, writes)
	assert.Empty(t, st.Recipes())
}

func TestAdd_WhitespaceFieldsReachRemote(t *testing.T) {
	api := newFakeAPI()
	ctrl, st := setup(api)

	require.NoError(t, ctrl.Add(context.Background(), " ", "Boil"))
	ctrl.Wait()

	_, writes := api.counts()
	assert.Equal(t, 1, writes)
	assert.Equal(t, domain.RecipeList{{Name: " ", Instructions: "Boil"}}, st.Recipes())
}

func TestAdd_RemoteFailureKeepsState(t *testing.T) {
	api := newFakeAPI(soup)
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))
	ctrl.SelectTab(domain.TabInput)

	api.writeErr = errBackendDown
	err := ctrl.Add(ctx, toast.Name, toast.Instructions)
	require.ErrorIs(t, err, errBackendDown)
	ctrl.Wait()

	lists, _ := api.counts()
	assert.Equal(t, 1, lists, "no reconciling read after a failed write")
	assert.Equal(t, domain.RecipeList{soup}, st.Recipes())
	assert.Equal(t, domain.TabInput, st.UI().CurrentTab)
}

func TestUpdate_ReplacesAndLeavesEditMode(t *testing.T) {
	api := newFakeAPI(soup, toast)
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))

	require.NoError(t, ctrl.BeginEdit(1))
	ui := st.UI()
	assert.True(t, ui.IsEditMode)
	require.NotNil(t, ui.EditingRecipeIndex)
	assert.Equal(t, 1, *ui.EditingRecipeIndex)
	assert.Equal(t, domain.TabInput, ui.CurrentTab)

	require.NoError(t, ctrl.Submit(ctx, "French Toast", "Dip and fry"))
	ctrl.Wait()

	want := domain.RecipeList{soup, {Name: "French Toast", Instructions: "Dip and fry"}}
	assert.Equal(t, want, st.Recipes())
	assert.False(t, st.UI().IsEditMode)
	assert.Nil(t, st.UI().EditingRecipeIndex)
}

func TestUpdate_RemoteFailureStaysInEditMode(t *testing.T) {
	api := newFakeAPI(soup)
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, ctrl.BeginEdit(0))

	api.writeErr = errBackendDown
	require.Error(t, ctrl.Submit(ctx, "Stew", "Simmer"))

	assert.Equal(t, domain.RecipeList{soup}, st.Recipes())
	assert.True(t, st.UI().IsEditMode)
}

func TestBeginEdit_OutOfRange(t *testing.T) {
	ctrl, st := setup(newFakeAPI())
	assert.ErrorIs(t, ctrl.BeginEdit(0), domain.ErrIndexOutOfRange)
	assert.False(t, st.UI().IsEditMode)

	ctrl.CancelEdit()
	assert.False(t, st.UI().IsEditMode)
}

func TestDelete_ConfirmRemovesAndClosesDialog(t *testing.T) {
	api := newFakeAPI(soup, toast, salad)
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))

	require.NoError(t, ctrl.RequestDelete(1))
	dc := st.UI().DeleteConfirmation
	assert.True(t, dc.IsOpen)
	require.NotNil(t, dc.RecipeIndex)
	assert.Equal(t, 1, *dc.RecipeIndex)

	require.NoError(t, ctrl.ConfirmDelete(ctx))
	// Order of the remaining recipes is preserved before reconciliation.
	assert.Equal(t, domain.RecipeList{soup, salad}, st.Recipes())
	ctrl.Wait()

	assert.Equal(t, domain.RecipeList{soup, salad}, st.Recipes())
	assert.False(t, st.UI().DeleteConfirmation.IsOpen)
	assert.Nil(t, st.UI().DeleteConfirmation.RecipeIndex)
}

func TestDelete_CancelAndMissingTarget(t *testing.T) {
	api := newFakeAPI(soup)
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))

	assert.ErrorIs(t, ctrl.ConfirmDelete(ctx), domain.ErrNoDeleteTarget)
	assert.ErrorIs(t, ctrl.RequestDelete(5), domain.ErrIndexOutOfRange)

	require.NoError(t, ctrl.RequestDelete(0))
	ctrl.CancelDelete()
	assert.False(t, st.UI().DeleteConfirmation.IsOpen)
	assert.Equal(t, domain.RecipeList{soup}, st.Recipes())

	_, writes := api.counts()
	assert.Zero(t, writes)
}

func TestDelete_RemoteFailure(t *testing.T) {
	api := newFakeAPI(soup)
	ctrl, st := setup(api)
	ctx := context.Background()
	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, ctrl.RequestDelete(0))

	api.writeErr = errBackendDown
	require.ErrorIs(t, ctrl.ConfirmDelete(ctx), errBackendDown)
	assert.Equal(t, domain.RecipeList{soup}, st.Recipes())
	assert.True(t, st.UI().DeleteConfirmation.IsOpen)
}

func TestRoll(t *testing.T) {
	ctx := context.Background()

	t.Run("records a member of the list", func(t *testing.T) {
		api := newFakeAPI(soup, toast)
		ctrl, st := setup(api)
		require.NoError(t, ctrl.Init(ctx))

		require.NoError(t, ctrl.Roll(ctx))
		rolled := st.UI().RolledRecipe
		require.NotNil(t, rolled)
		assert.True(t, st.Recipes().Contains(*rolled))
	})

	t.Run("empty list clears the rolled recipe", func(t *testing.T) {
		api := newFakeAPI()
		api.rolled = &soup
		ctrl, st := setup(api)
		require.NoError(t, ctrl.Roll(ctx))
		require.NotNil(t, st.UI().RolledRecipe)

		api.rolled = nil
		require.NoError(t, ctrl.Roll(ctx))
		assert.Nil(t, st.UI().RolledRecipe)
	})

	t.Run("failure keeps the previous roll", func(t *testing.T) {
		api := newFakeAPI(soup)
		ctrl, st := setup(api)
		require.NoError(t, ctrl.Roll(ctx))

		api.writeErr = errBackendDown
		require.ErrorIs(t, ctrl.Roll(ctx), errBackendDown)
		assert.Equal(t, &soup, st.UI().RolledRecipe)
	})
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewSync(reg)
	api := newFakeAPI()
	ctrl := controller.New(api, store.New(), controller.WithMetrics(m))
	ctx := context.Background()

	require.NoError(t, ctrl.Add(ctx, "Soup", "Boil"))
	_ = ctrl.Add(ctx, "", "")
	ctrl.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add", metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add", metrics.ResultInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Snapshots.WithLabelValues("reconcile", metrics.OutcomeApplied)))
}
