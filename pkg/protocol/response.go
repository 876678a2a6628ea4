package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// Response tags.
const (
	TagRecipes       = "Recipes"
	TagRecipeAdded   = "RecipeAdded"
	TagRecipeUpdated = "RecipeUpdated"
	TagRecipeDeleted = "RecipeDeleted"
	TagRolledRecipe  = "RolledRecipe"
)

type recipeBody struct {
	Recipe *domain.Recipe `json:"recipe"`
}

type successBody struct {
	Success bool `json:"success"`
}

// ErrorBody is the payload of a rejected request.
type ErrorBody struct {
	Error string `json:"error"`
}

// EncodeRecipes renders {"Recipes": [...]}. A nil list is sent as [].
func EncodeRecipes(list domain.RecipeList) ([]byte, error) {
	return tagged(TagRecipes, list.Clone())
}

// DecodeRecipes parses {"Recipes": [...]}. A null list decodes to an empty one.
func DecodeRecipes(data []byte) (domain.RecipeList, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	body, ok := envelope[TagRecipes]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrMalformed, TagRecipes)
	}
	var list domain.RecipeList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformed, TagRecipes, err)
	}
	return list.Clone(), nil
}

// EncodeRecipeAdded renders {"RecipeAdded": {"recipe": R}}.
func EncodeRecipeAdded(r domain.Recipe) ([]byte, error) {
	return tagged(TagRecipeAdded, recipeBody{Recipe: &r})
}

// DecodeRecipeAdded returns the canonical recipe echoed by the backend.
// A nil recipe with a nil error means the backend did not echo one.
func DecodeRecipeAdded(data []byte) (*domain.Recipe, error) {
	var wire struct {
		RecipeAdded *recipeBody `json:"RecipeAdded"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	if wire.RecipeAdded == nil || wire.RecipeAdded.Recipe == nil {
		return nil, nil
	}
	r := *wire.RecipeAdded.Recipe
	return &r, nil
}

// EncodeRecipeUpdated renders {"RecipeUpdated": {"success": true}}.
func EncodeRecipeUpdated() ([]byte, error) {
	return tagged(TagRecipeUpdated, successBody{Success: true})
}

// EncodeRecipeDeleted renders {"RecipeDeleted": {"success": true}}.
func EncodeRecipeDeleted() ([]byte, error) {
	return tagged(TagRecipeDeleted, successBody{Success: true})
}

// EncodeRolledRecipe renders {"RolledRecipe": {"recipe": R|null}}.
func EncodeRolledRecipe(r *domain.Recipe) ([]byte, error) {
	return tagged(TagRolledRecipe, recipeBody{Recipe: r})
}

// DecodeRolledRecipe parses {"RolledRecipe": {"recipe": R|null}}.
// A missing tag or a null recipe both mean nothing was rolled.
func DecodeRolledRecipe(data []byte) (*domain.Recipe, error) {
	var wire struct {
		RolledRecipe *recipeBody `json:"RolledRecipe"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	if wire.RolledRecipe == nil || wire.RolledRecipe.Recipe == nil {
		return nil, nil
	}
	r := *wire.RolledRecipe.Recipe
	return &r, nil
}

// EncodeError renders {"error": msg}.
func EncodeError(msg string) ([]byte, error) {
	return json.Marshal(ErrorBody{Error: msg})
}
