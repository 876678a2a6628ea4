package domain

import (
	"fmt"
	"strings"
)

// Recipe is a named dish with free-text instructions.
// It carries no identifier: recipes are addressed by their position in a RecipeList.
type Recipe struct {
	Name         string `json:"name" yaml:"name" mapstructure:"name"`
	Instructions string `json:"instructions" yaml:"instructions" mapstructure:"instructions"`
}

// NewRecipe trims the given fields and builds a Recipe.
func NewRecipe(name, instructions string) Recipe {
	return Recipe{
		Name:         strings.TrimSpace(name),
		Instructions: strings.TrimSpace(instructions),
	}
}

// Validate reports ErrInvalidRecipe when a required field is empty.
// Whitespace counts as content; callers that want trimming use NewRecipe.
func (r Recipe) Validate() error {
	if r.Name == "" || r.Instructions == "" {
		return ErrInvalidRecipe
	}
	return nil
}

// RecipeList is the ordered list of recipes. Insertion order is display order.
type RecipeList []Recipe

// Clone returns a copy that does not alias the receiver.
// A nil list clones to an empty, non-nil list so it encodes as [] on the wire.
func (l RecipeList) Clone() RecipeList {
	out := make(RecipeList, len(l))
	copy(out, l)
	return out
}

// Contains reports whether r is a member of the list.
func (l RecipeList) Contains(r Recipe) bool {
	for _, candidate := range l {
		if candidate == r {
			return true
		}
	}
	return false
}

// InRange reports whether index addresses an element of the list.
func (l RecipeList) InRange(index int) bool {
	return index >= 0 && index < len(l)
}

// Append returns a new list with r added at the end.
func (l RecipeList) Append(r Recipe) RecipeList {
	out := make(RecipeList, len(l), len(l)+1)
	copy(out, l)
	return append(out, r)
}

// Replace returns a new list with the element at index swapped for r.
func (l RecipeList) Replace(index int, r Recipe) (RecipeList, error) {
	if !l.InRange(index) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(l))
	}
	out := l.Clone()
	out[index] = r
	return out, nil
}

// Remove returns a new list without the element at index.
// The relative order of the remaining elements is preserved.
func (l RecipeList) Remove(index int) (RecipeList, error) {
	if !l.InRange(index) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(l))
	}
	out := make(RecipeList, 0, len(l)-1)
	out = append(out, l[:index]...)
	return append(out, l[index+1:]...), nil
}
