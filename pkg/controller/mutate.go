package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/metrics"
)

// Add creates a recipe remotely, appends it optimistically and reconciles.
// Invalid input is rejected before any remote call. A failed remote write skips
// the optimistic step and leaves the UI state as it is.
func (c *Controller) Add(ctx context.Context, name, instructions string) error {
	recipe := domain.Recipe{Name: name, Instructions: instructions}
	if err := recipe.Validate(); err != nil {
		c.logger.Debug("add ignored: missing fields")
		c.metrics.ObserveOperation(opAdd, metrics.ResultInvalid)
		return err
	}

	canonical, err := c.api.Add(ctx, recipe)
	if err != nil {
		c.logger.Error("error adding recipe", "error", err)
		c.metrics.ObserveOperation(opAdd, metrics.ResultError)
		return fmt.Errorf("failed to add recipe: %w", err)
	}

	// Prefer the backend's canonical copy.
	if canonical != nil {
		recipe = *canonical
	}
	c.store.Append(recipe)
	c.metrics.ObserveOperation(opAdd, metrics.ResultOK)
	c.logger.Info("recipe added", "name", recipe.Name)

	c.Reconcile(ctx)
	return nil
}

// Update replaces the recipe at index remotely, then locally, and leaves edit mode.
func (c *Controller) Update(ctx context.Context, index int, recipe domain.Recipe) error {
	if err := recipe.Validate(); err != nil {
		c.logger.Debug("update ignored: missing fields", "index", index)
		c.metrics.ObserveOperation(opUpdate, metrics.ResultInvalid)
		return err
	}

	if err := c.api.Update(ctx, index, recipe); err != nil {
		c.logger.Error("error updating recipe", "index", index, "error", err)
		c.metrics.ObserveOperation(opUpdate, metrics.ResultError)
		return fmt.Errorf("failed to update recipe %d: %w", index, err)
	}

	if err := c.store.ReplaceAt(index, recipe); err != nil {
		// The reconciling read below repairs the list.
		c.logger.Warn("optimistic update skipped", "index", index, "error", err)
	}
	c.store.SetUIState(domain.UIPatch{
		IsEditMode:        domain.Ptr(false),
		ClearEditingIndex: true,
	})
	c.metrics.ObserveOperation(opUpdate, metrics.ResultOK)
	c.logger.Info("recipe updated", "index", index, "name", recipe.Name)

	c.Reconcile(ctx)
	return nil
}

// Delete removes the recipe at index remotely, then locally, and closes the
// delete confirmation dialog.
func (c *Controller) Delete(ctx context.Context, index int) error {
	if err := c.api.Delete(ctx, index); err != nil {
		c.logger.Error("error deleting recipe", "index", index, "error", err)
		c.metrics.ObserveOperation(opDelete, metrics.ResultError)
		return fmt.Errorf("failed to delete recipe %d: %w", index, err)
	}

	if err := c.store.RemoveAt(index); err != nil {
		c.logger.Warn("optimistic delete skipped", "index", index, "error", err)
	}
	c.store.SetUIState(domain.UIPatch{
		DeleteConfirmation: &domain.DeleteConfirmation{},
	})
	c.metrics.ObserveOperation(opDelete, metrics.ResultOK)
	c.logger.Info("recipe deleted", "index", index)

	c.Reconcile(ctx)
	return nil
}

// Roll asks the backend for a random recipe and records it as the rolled recipe.
// There is no local randomization: the selection is authoritative-only.
func (c *Controller) Roll(ctx context.Context) error {
	rolled, err := c.api.Roll(ctx)
	if err != nil {
		c.logger.Error("error rolling recipe", "error", err)
		c.metrics.ObserveOperation(opRoll, metrics.ResultError)
		return fmt.Errorf("failed to roll recipe: %w", err)
	}

	c.store.SetUIState(domain.SetRolled(rolled))
	c.metrics.ObserveOperation(opRoll, metrics.ResultOK)
	if rolled == nil {
		c.logger.Info("nothing to roll")
	} else {
		c.logger.Info("recipe rolled", "name", rolled.Name)
	}
	return nil
}

// IsInvalid reports whether err is a local validation failure, which callers
// usually ignore silently.
func IsInvalid(err error) bool {
	return errors.Is(err, domain.ErrInvalidRecipe)
}
