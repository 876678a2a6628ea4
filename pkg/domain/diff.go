package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on a watcher.
type SnapshotDiff struct {
	// Version is always present to order diffs.
	Version uint64 `json:"version"`

	// Appended holds recipes added at the end when the old list is a prefix of the new one.
	Appended []Recipe `json:"appended,omitempty"`

	// Recipes holds the whole list when it was rewritten (edit, delete, reorder).
	Recipes RecipeList `json:"recipes,omitempty"`

	// CurrentTab changed?
	CurrentTab *Tab `json:"current_tab,omitempty"`

	// Rolled changed? RolledCleared is set when the rolled recipe went back to null.
	Rolled        *Recipe `json:"rolled,omitempty"`
	RolledCleared bool    `json:"rolled_cleared,omitempty"`

	// EditMode changed?
	EditMode *bool `json:"edit_mode,omitempty"`

	// DeleteConfirmation changed?
	DeleteConfirmation *DeleteConfirmation `json:"delete_confirmation,omitempty"`
}

// Diff calculates the difference between old and new.
// If old is nil, it returns a diff representing the entire new snapshot (initial load).
// It returns nil when nothing observable changed.
func Diff(old, new *Snapshot) *SnapshotDiff {
	if new == nil {
		return nil
	}

	diff := &SnapshotDiff{Version: new.Version}

	// 1. List
	diffRecipes(old, new, diff)

	// 2. View state
	var oldUI UIState
	if old != nil {
		oldUI = old.UI
	}
	if old == nil || oldUI.CurrentTab != new.UI.CurrentTab {
		tab := new.UI.CurrentTab
		diff.CurrentTab = &tab
	}
	if !reflect.DeepEqual(oldUI.RolledRecipe, new.UI.RolledRecipe) {
		if new.UI.RolledRecipe == nil {
			diff.RolledCleared = true
		} else {
			r := *new.UI.RolledRecipe
			diff.Rolled = &r
		}
	}
	if oldUI.IsEditMode != new.UI.IsEditMode {
		mode := new.UI.IsEditMode
		diff.EditMode = &mode
	}
	if !reflect.DeepEqual(oldUI.DeleteConfirmation, new.UI.DeleteConfirmation) {
		dc := new.UI.Clone().DeleteConfirmation
		diff.DeleteConfirmation = &dc
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffRecipes assumes append-only as the common case and falls back to the full list.
func diffRecipes(old, new *Snapshot, diff *SnapshotDiff) {
	if old == nil {
		if len(new.Recipes) > 0 {
			diff.Appended = new.Recipes.Clone()
		}
		return
	}

	oldLen := len(old.Recipes)
	newLen := len(new.Recipes)

	if newLen >= oldLen && hasPrefix(new.Recipes, old.Recipes) {
		if newLen > oldLen {
			diff.Appended = new.Recipes[oldLen:].Clone()
		}
		return
	}

	diff.Recipes = new.Recipes.Clone()
}

func hasPrefix(list, prefix RecipeList) bool {
	for i := range prefix {
		if list[i] != prefix[i] {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.Appended) == 0 &&
		d.Recipes == nil &&
		d.CurrentTab == nil &&
		d.Rolled == nil &&
		!d.RolledCleared &&
		d.EditMode == nil &&
		d.DeleteConfirmation == nil
}
