package controller

import (
	"context"

	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/metrics"
	"github.com/aretw0/recipe-decider/pkg/protocol"
)

const pushDropped = "dropped"

// HandlePush decodes a push-channel message and applies it.
// Malformed or unrecognised payloads are logged and dropped.
func (c *Controller) HandlePush(ctx context.Context, payload []byte) {
	ev, err := protocol.DecodePush(payload)
	if err != nil {
		c.logger.Warn("dropping push message", "error", err, "size", len(payload))
		c.metrics.ObservePush(pushDropped)
		return
	}
	c.HandleEvent(ctx, ev)
}

// HandleEvent applies a decoded push event to the store.
func (c *Controller) HandleEvent(ctx context.Context, ev domain.Event) {
	c.metrics.ObservePush(ev.Kind())

	switch e := ev.(type) {
	case domain.NewRecipeEvent:
		c.logger.Debug("push: new recipe", "name", e.Recipe.Name)
		c.store.Append(e.Recipe)
		// Pushes from this or another client may race with local state.
		c.Reconcile(ctx)
	case domain.RecipeRolledEvent:
		c.logger.Debug("push: recipe rolled", "empty", e.Recipe == nil)
		c.store.SetUIState(domain.SetRolled(e.Recipe))
	case domain.RecipeListReplacedEvent:
		c.logger.Debug("push: recipes updated", "count", len(e.Recipes))
		c.store.ApplySnapshot(c.store.NextVersion(), e.Recipes)
		c.metrics.ObserveSnapshot(sourcePush, metrics.OutcomeApplied)
	default:
		c.logger.Warn("dropping unsupported event", "kind", ev.Kind())
	}
}
