package domain

// Event is a push notification received from the backend.
// The set of events is closed: only the types in this package implement it.
type Event interface {
	// Kind returns the wire tag of the event.
	Kind() string
	isEvent()
}

// Wire tags of the push channel.
const (
	KindNewRecipe      = "NewRecipe"
	KindRecipeRolled   = "RecipeRolled"
	KindRecipesUpdated = "RecipesUpdated"
)

// NewRecipeEvent announces a recipe appended by any client.
type NewRecipeEvent struct {
	Recipe Recipe
}

// RecipeRolledEvent announces a roll. Recipe is nil when there was nothing to roll.
type RecipeRolledEvent struct {
	Recipe *Recipe
}

// RecipeListReplacedEvent carries the full authoritative list.
type RecipeListReplacedEvent struct {
	Recipes RecipeList
}

func (NewRecipeEvent) Kind() string          { return KindNewRecipe }
func (RecipeRolledEvent) Kind() string       { return KindRecipeRolled }
func (RecipeListReplacedEvent) Kind() string { return KindRecipesUpdated }

func (NewRecipeEvent) isEvent()          {}
func (RecipeRolledEvent) isEvent()       {}
func (RecipeListReplacedEvent) isEvent() {}
