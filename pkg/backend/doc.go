// Package backend implements the authoritative recipe service.
//
// The Service owns a RecipeRepository and fans out push events through an
// EventPublisher following these broadcast rules:
//
//   - Add publishes NewRecipe with the stored recipe.
//   - Update and Delete publish RecipesUpdated with the full list.
//   - Roll answers the caller only; Announce rolls and publishes RecipeRolled.
//
// List mutations are serialized in-process and, when a DistributedLocker is
// configured, across replicas sharing the same repository.
package backend
