package controller

import (
	"context"
	"fmt"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// SelectTab switches the active tab.
func (c *Controller) SelectTab(tab domain.Tab) {
	c.store.SetUIState(domain.UIPatch{CurrentTab: &tab})
}

// BeginEdit enters edit mode for the recipe at index and switches to the input tab.
func (c *Controller) BeginEdit(index int) error {
	if !c.store.Recipes().InRange(index) {
		return fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
	}
	c.store.SetUIState(domain.UIPatch{
		IsEditMode:         domain.Ptr(true),
		EditingRecipeIndex: &index,
		CurrentTab:         domain.Ptr(domain.TabInput),
	})
	return nil
}

// CancelEdit leaves edit mode without touching the list.
func (c *Controller) CancelEdit() {
	c.store.SetUIState(domain.UIPatch{
		IsEditMode:        domain.Ptr(false),
		ClearEditingIndex: true,
	})
}

// Submit handles the recipe form: it updates the edited recipe when in edit mode,
// otherwise it adds a new one.
func (c *Controller) Submit(ctx context.Context, name, instructions string) error {
	ui := c.store.UI()
	if ui.IsEditMode {
		if ui.EditingRecipeIndex == nil {
			return domain.ErrNoEditTarget
		}
		return c.Update(ctx, *ui.EditingRecipeIndex, domain.Recipe{Name: name, Instructions: instructions})
	}
	return c.Add(ctx, name, instructions)
}

// RequestDelete opens the delete confirmation dialog for the recipe at index.
func (c *Controller) RequestDelete(index int) error {
	if !c.store.Recipes().InRange(index) {
		return fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
	}
	c.store.SetUIState(domain.UIPatch{
		DeleteConfirmation: &domain.DeleteConfirmation{IsOpen: true, RecipeIndex: &index},
	})
	return nil
}

// CancelDelete closes the dialog.
func (c *Controller) CancelDelete() {
	c.store.SetUIState(domain.UIPatch{DeleteConfirmation: &domain.DeleteConfirmation{}})
}

// ConfirmDelete deletes the recipe the dialog was opened for.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	dc := c.store.UI().DeleteConfirmation
	if dc.RecipeIndex == nil {
		return domain.ErrNoDeleteTarget
	}
	return c.Delete(ctx, *dc.RecipeIndex)
}
