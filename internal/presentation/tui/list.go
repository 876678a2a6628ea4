package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// RenderList writes the recipe list with the markers the UI state implies.
func RenderList(w io.Writer, recipes domain.RecipeList, ui domain.UIState) {
	fmt.Fprintf(w, "Recipes (%d)\n", len(recipes))
	if len(recipes) == 0 {
		fmt.Fprintln(w, "  (none yet, add one with `recipe-decider add`)")
	}
	for i, r := range recipes {
		var marks []string
		if ui.IsEditMode && ui.EditingRecipeIndex != nil && *ui.EditingRecipeIndex == i {
			marks = append(marks, "editing")
		}
		dc := ui.DeleteConfirmation
		if dc.IsOpen && dc.RecipeIndex != nil && *dc.RecipeIndex == i {
			marks = append(marks, "pending delete")
		}
		line := fmt.Sprintf("  [%d] %s", i, r.Name)
		if len(marks) > 0 {
			line += " (" + strings.Join(marks, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// RenderUI writes the view state summary shown under the list.
func RenderUI(w io.Writer, ui domain.UIState, status domain.SyncStatus) {
	fmt.Fprintf(w, "Tab: %s\n", ui.CurrentTab)
	if ui.RolledRecipe != nil {
		fmt.Fprintf(w, "Rolled: %s\n", ui.RolledRecipe.Name)
	} else {
		fmt.Fprintln(w, "Rolled: -")
	}
	if status != "" {
		fmt.Fprintf(w, "Sync: %s\n", status)
	}
}

// RenderSnapshot writes the list followed by the view state.
func RenderSnapshot(w io.Writer, snap domain.Snapshot, status domain.SyncStatus) {
	RenderList(w, snap.Recipes, snap.UI)
	RenderUI(w, snap.UI, status)
}

// DiffLines turns a diff into one line per observable change, in a fixed order.
func DiffLines(d *domain.SnapshotDiff) []string {
	if d == nil {
		return nil
	}
	prefix := fmt.Sprintf("v%d", d.Version)
	var out []string
	for _, r := range d.Appended {
		out = append(out, fmt.Sprintf("%s + %s", prefix, r.Name))
	}
	if d.Recipes != nil {
		out = append(out, fmt.Sprintf("%s recipes replaced (%d)", prefix, len(d.Recipes)))
	}
	if d.CurrentTab != nil {
		out = append(out, fmt.Sprintf("%s tab: %s", prefix, *d.CurrentTab))
	}
	if d.Rolled != nil {
		out = append(out, fmt.Sprintf("%s rolled: %s", prefix, d.Rolled.Name))
	}
	if d.RolledCleared {
		out = append(out, prefix+" rolled cleared")
	}
	if d.EditMode != nil {
		out = append(out, fmt.Sprintf("%s edit mode: %t", prefix, *d.EditMode))
	}
	if d.DeleteConfirmation != nil {
		if d.DeleteConfirmation.IsOpen && d.DeleteConfirmation.RecipeIndex != nil {
			out = append(out, fmt.Sprintf("%s delete pending: [%d]", prefix, *d.DeleteConfirmation.RecipeIndex))
		} else {
			out = append(out, prefix+" delete dialog closed")
		}
	}
	return out
}

// RenderDiff writes DiffLines to w.
func RenderDiff(w io.Writer, d *domain.SnapshotDiff) {
	for _, line := range DiffLines(d) {
		fmt.Fprintln(w, line)
	}
}
