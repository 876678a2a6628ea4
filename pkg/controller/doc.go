/*
Package controller implements the Sync Controller: it keeps the Recipe Store
consistent with the remote recipe resource across three independent triggers.

  - Initial load: Init reads the full list, replaces the store and routes the UI
    to the input tab when the list is empty, otherwise to the roll tab.
  - Local mutation: Add, Update and Delete validate locally, issue the remote
    write, apply the optimistic change on success and then start a reconciling
    read that overwrites the store with the authoritative list.
  - Push notification: HandlePush and HandleEvent apply NewRecipe,
    RecipeRolled and RecipesUpdated events as they arrive.

Failures never halt the controller: they are logged, the store keeps its last
known good contents, and the error is returned to the caller. Nothing is
retried automatically.

# Usage

	st := store.New()
	ctrl := controller.New(api, st, controller.WithLogger(logger))

	if err := ctrl.Init(ctx); err != nil {
		logger.Warn("starting with an empty list", "err", err)
	}
	_ = ctrl.Add(ctx, "Toast", "Grill bread")
	ctrl.Wait() // reconciling reads are fire-and-forget
*/
package controller
