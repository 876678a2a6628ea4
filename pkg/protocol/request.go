package protocol

import (
	"fmt"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// Request tags.
const (
	TagAddRecipe    = "AddRecipe"
	TagUpdateRecipe = "UpdateRecipe"
	TagDeleteRecipe = "DeleteRecipe"
	TagRollRecipe   = "RollRecipe"
	TagGetRecipes   = "GetRecipes"
)

// Request is a POST /recipes body. Only the types in this package implement it.
type Request interface {
	Tag() string
	isRequest()
}

// AddRecipe appends a recipe to the list.
type AddRecipe struct {
	Recipe domain.Recipe
}

// UpdateRecipe replaces the recipe at Index.
type UpdateRecipe struct {
	Index  int           `json:"index"`
	Recipe domain.Recipe `json:"recipe"`
}

// DeleteRecipe removes the recipe at Index.
type DeleteRecipe struct {
	Index int `json:"index"`
}

// RollRecipe asks the backend to pick a random recipe.
type RollRecipe struct{}

// GetRecipes asks for the whole list through the POST endpoint.
type GetRecipes struct{}

func (AddRecipe) Tag() string    { return TagAddRecipe }
func (UpdateRecipe) Tag() string { return TagUpdateRecipe }
func (DeleteRecipe) Tag() string { return TagDeleteRecipe }
func (RollRecipe) Tag() string   { return TagRollRecipe }
func (GetRecipes) Tag() string   { return TagGetRecipes }

func (AddRecipe) isRequest()    {}
func (UpdateRecipe) isRequest() {}
func (DeleteRecipe) isRequest() {}
func (RollRecipe) isRequest()   {}
func (GetRecipes) isRequest()   {}

// EncodeRequest renders req in its tagged wire form.
func EncodeRequest(req Request) ([]byte, error) {
	switch r := req.(type) {
	case AddRecipe:
		return tagged(TagAddRecipe, r.Recipe)
	case UpdateRecipe:
		return tagged(TagUpdateRecipe, r)
	case DeleteRecipe:
		return tagged(TagDeleteRecipe, r)
	case RollRecipe:
		return tagged(TagRollRecipe, true)
	case GetRecipes:
		return tagged(TagGetRecipes, true)
	default:
		return nil, fmt.Errorf("%w: request %T", domain.ErrUnknownMessage, req)
	}
}

// DecodeRequest parses a tagged request body.
func DecodeRequest(data []byte) (Request, error) {
	tag, body, err := splitTag(data)
	if err != nil {
		return nil, err
	}

	switch tag {
	case TagAddRecipe:
		var r domain.Recipe
		if err := decodeBody(tag, body, &r); err != nil {
			return nil, err
		}
		return AddRecipe{Recipe: r}, nil
	case TagUpdateRecipe:
		var wire struct {
			Index  *int           `json:"index"`
			Recipe *domain.Recipe `json:"recipe"`
		}
		if err := decodeBody(tag, body, &wire); err != nil {
			return nil, err
		}
		if wire.Index == nil || wire.Recipe == nil {
			return nil, fmt.Errorf("%w: %s requires index and recipe", domain.ErrMalformed, tag)
		}
		return UpdateRecipe{Index: *wire.Index, Recipe: *wire.Recipe}, nil
	case TagDeleteRecipe:
		var wire struct {
			Index *int `json:"index"`
		}
		if err := decodeBody(tag, body, &wire); err != nil {
			return nil, err
		}
		if wire.Index == nil {
			return nil, fmt.Errorf("%w: %s requires index", domain.ErrMalformed, tag)
		}
		return DeleteRecipe{Index: *wire.Index}, nil
	case TagRollRecipe:
		if err := decodeTrue(tag, body); err != nil {
			return nil, err
		}
		return RollRecipe{}, nil
	case TagGetRecipes:
		if err := decodeTrue(tag, body); err != nil {
			return nil, err
		}
		return GetRecipes{}, nil
	default:
		return nil, fmt.Errorf("%w: request tag %q", domain.ErrUnknownMessage, tag)
	}
}
