package cli

import (
	"context"
	"io"

	"github.com/aretw0/recipe-decider/internal/presentation/tui"
	httpadapter "github.com/aretw0/recipe-decider/pkg/adapters/http"
	"github.com/aretw0/recipe-decider/pkg/domain"
)

// Watch prints the current snapshot, then one line per observable change
// while the push channel keeps the store in sync. It returns when ctx is done.
func Watch(ctx context.Context, c *Client, w io.Writer, opts ...httpadapter.PushOption) error {
	updates, cancel := c.Store.Subscribe()
	defer cancel()

	prev := c.Store.Snapshot()
	tui.RenderSnapshot(w, prev, c.Controller.Status())

	done := make(chan error, 1)
	go func() {
		done <- c.PushClient(opts...).Run(ctx)
	}()

	for {
		select {
		case err := <-done:
			return err
		case snap := <-updates:
			if snap.Version <= prev.Version {
				continue
			}
			tui.RenderDiff(w, domain.Diff(&prev, &snap))
			prev = snap
		}
	}
}
