/*
Package protocol implements the JSON wire format spoken between the Recipe Decider
client and its backend.

Every message is an object with exactly one top-level tag naming the variant,
for example {"AddRecipe": {"name": "Soup", "instructions": "Boil"}}. Each
direction is modelled as a closed sum type and decoded exhaustively:
payloads with zero or several tags are ErrMalformed, unknown tags are
ErrUnknownMessage (both from package domain).

# Messages

  - Requests (POST /recipes): AddRecipe, UpdateRecipe, DeleteRecipe, RollRecipe, GetRecipes.
  - Responses: Recipes, RecipeAdded, RecipeUpdated, RecipeDeleted, RolledRecipe, Error.
  - Push events (SSE data frames): NewRecipe, RecipeRolled, RecipesUpdated.
*/
package protocol
