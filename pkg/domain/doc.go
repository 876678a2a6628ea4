/*
Package domain contains the core domain models of the Recipe Decider client.

It defines the recipes the user curates, the view state the presentation layer
renders, and the push events the backend emits. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Recipe: A named dish with free-text instructions, addressed by list position.
  - RecipeList: The ordered list; insertion order is display order.
  - UIState: Which tab is active, which recipe is being edited, the rolled recipe
    and the delete confirmation dialog.
  - Snapshot: An immutable, versioned view of the list and UI state.
  - Event: The closed set of push notifications (NewRecipe, RecipeRolled, RecipesUpdated).
*/
package domain
