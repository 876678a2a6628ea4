package domain

import "fmt"

// Tab identifies the active view of the client.
type Tab string

const (
	TabRoll  Tab = "roll"  // Roll a random recipe
	TabInput Tab = "input" // Add or edit recipes
)

// ParseTab converts user input into a Tab.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabRoll, TabInput:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q (expected %q or %q)", s, TabRoll, TabInput)
}

// DeleteConfirmation is the state of the "are you sure?" dialog.
type DeleteConfirmation struct {
	IsOpen      bool `json:"isOpen"`
	RecipeIndex *int `json:"recipeIndex"`
}

// UIState is the view state owned by the store.
// It is persisted per session but never treated as durable.
type UIState struct {
	CurrentTab         Tab                `json:"currentTab"`
	IsEditMode         bool               `json:"isEditMode"`
	EditingRecipeIndex *int               `json:"editingRecipeIndex"`
	RolledRecipe       *Recipe            `json:"rolledRecipe"`
	DeleteConfirmation DeleteConfirmation `json:"deleteConfirmation"`
}

// NewUIState returns the state a fresh process starts with.
func NewUIState() UIState {
	return UIState{CurrentTab: TabRoll}
}

// Clone returns a deep copy so callers cannot reach into store-owned pointers.
func (u UIState) Clone() UIState {
	out := u
	out.EditingRecipeIndex = cloneInt(u.EditingRecipeIndex)
	out.DeleteConfirmation.RecipeIndex = cloneInt(u.DeleteConfirmation.RecipeIndex)
	if u.RolledRecipe != nil {
		r := *u.RolledRecipe
		out.RolledRecipe = &r
	}
	return out
}

// UIPatch is a partial update merged into UIState.
// Nil fields are left untouched; the Clear flags reset optional fields to null.
type UIPatch struct {
	CurrentTab         *Tab
	IsEditMode         *bool
	EditingRecipeIndex *int
	ClearEditingIndex  bool
	RolledRecipe       *Recipe
	ClearRolledRecipe  bool
	DeleteConfirmation *DeleteConfirmation
}

// Apply merges the patch and returns the resulting state.
func (u UIState) Apply(p UIPatch) UIState {
	out := u.Clone()
	if p.CurrentTab != nil {
		out.CurrentTab = *p.CurrentTab
	}
	if p.IsEditMode != nil {
		out.IsEditMode = *p.IsEditMode
	}
	if p.ClearEditingIndex {
		out.EditingRecipeIndex = nil
	} else if p.EditingRecipeIndex != nil {
		out.EditingRecipeIndex = cloneInt(p.EditingRecipeIndex)
	}
	if p.ClearRolledRecipe {
		out.RolledRecipe = nil
	} else if p.RolledRecipe != nil {
		r := *p.RolledRecipe
		out.RolledRecipe = &r
	}
	if p.DeleteConfirmation != nil {
		out.DeleteConfirmation = DeleteConfirmation{
			IsOpen:      p.DeleteConfirmation.IsOpen,
			RecipeIndex: cloneInt(p.DeleteConfirmation.RecipeIndex),
		}
	}
	return out
}

// SetRolled builds a patch that records the rolled recipe, clearing it when r is nil.
func SetRolled(r *Recipe) UIPatch {
	if r == nil {
		return UIPatch{ClearRolledRecipe: true}
	}
	return UIPatch{RolledRecipe: r}
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
