package protocol

import (
	"fmt"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

type recipesBody struct {
	Recipes *domain.RecipeList `json:"recipes"`
}

// EncodePush renders a push event in its tagged wire form.
func EncodePush(ev domain.Event) ([]byte, error) {
	switch e := ev.(type) {
	case domain.NewRecipeEvent:
		return tagged(domain.KindNewRecipe, e.Recipe)
	case domain.RecipeRolledEvent:
		return tagged(domain.KindRecipeRolled, recipeBody{Recipe: e.Recipe})
	case domain.RecipeListReplacedEvent:
		list := e.Recipes.Clone()
		return tagged(domain.KindRecipesUpdated, recipesBody{Recipes: &list})
	default:
		return nil, fmt.Errorf("%w: event %T", domain.ErrUnknownMessage, ev)
	}
}

// DecodePush parses a push-channel message into a domain event.
func DecodePush(data []byte) (domain.Event, error) {
	tag, body, err := splitTag(data)
	if err != nil {
		return nil, err
	}

	switch tag {
	case domain.KindNewRecipe:
		var r domain.Recipe
		if err := decodeBody(tag, body, &r); err != nil {
			return nil, err
		}
		return domain.NewRecipeEvent{Recipe: r}, nil
	case domain.KindRecipeRolled:
		var wire recipeBody
		if err := decodeBody(tag, body, &wire); err != nil {
			return nil, err
		}
		return domain.RecipeRolledEvent{Recipe: wire.Recipe}, nil
	case domain.KindRecipesUpdated:
		var wire recipesBody
		if err := decodeBody(tag, body, &wire); err != nil {
			return nil, err
		}
		if wire.Recipes == nil {
			return nil, fmt.Errorf("%w: %s without recipes", domain.ErrMalformed, tag)
		}
		return domain.RecipeListReplacedEvent{Recipes: wire.Recipes.Clone()}, nil
	default:
		return nil, fmt.Errorf("%w: push tag %q", domain.ErrUnknownMessage, tag)
	}
}
